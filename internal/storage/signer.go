// Package storage resolves stored file references into time-limited signed
// URLs and verifies them on the way back in.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	ErrTokenExpired = errors.New("signed url expired")
	ErrTokenInvalid = errors.New("signed url invalid")
)

const tokenName = "file"

type fileToken struct {
	Path      string
	ExpiresAt int64
}

// Signer issues and verifies signed URLs for stored files. Issued URLs are
// cached in redis for their remaining lifetime; a cache failure only costs a
// re-sign, never an error.
type Signer struct {
	codec    *securecookie.SecureCookie
	cache    *redis.Client // optional
	basePath string
	log      zerolog.Logger
}

// NewSigner builds a signer. blockKey may be nil to disable encryption;
// cache may be nil to disable caching.
func NewSigner(hashKey, blockKey []byte, cache *redis.Client, basePath string, logger *zerolog.Logger) *Signer {
	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(0) // expiry is carried inside the token

	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "signer").Logger()
	}

	return &Signer{
		codec:    codec,
		cache:    cache,
		basePath: basePath,
		log:      log,
	}
}

// Sign returns a relative URL that grants access to the stored path for ttl.
func (s *Signer) Sign(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if path == "" {
		return "", fmt.Errorf("storage path is empty")
	}

	cacheKey := "signed_url:" + path
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			return cached, nil
		} else if err != redis.Nil {
			s.log.Debug().Err(err).Str("path", path).Msg("signed url cache read failed")
		}
	}

	encoded, err := s.codec.Encode(tokenName, fileToken{
		Path:      path,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("encode file token: %w", err)
	}

	signed := fmt.Sprintf("%s?token=%s", s.basePath, url.QueryEscape(encoded))

	if s.cache != nil {
		// Cache for half the ttl so a cached link always has life left.
		if err := s.cache.Set(ctx, cacheKey, signed, ttl/2).Err(); err != nil {
			s.log.Debug().Err(err).Str("path", path).Msg("signed url cache write failed")
		}
	}
	return signed, nil
}

// Verify decodes a token and returns the stored path it grants access to.
func (s *Signer) Verify(token string) (string, error) {
	var decoded fileToken
	if err := s.codec.Decode(tokenName, token, &decoded); err != nil {
		return "", ErrTokenInvalid
	}
	if time.Now().Unix() > decoded.ExpiresAt {
		return "", ErrTokenExpired
	}
	return decoded.Path, nil
}
