// Package query normalizes raw list-endpoint parameters into a typed,
// order-independent descriptor and serializes descriptors back into
// continuation links.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Sort keys use the wire names of the fields they order by.
const (
	SortPrice    = "rate_per_hour"
	SortRating   = "average_rating"
	SortDistance = "distance"
)

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Descriptor is the normalized filter/sort/pagination state of one list
// request, independent of its wire encoding. Building the same parameters in
// any order yields an identical descriptor.
type Descriptor struct {
	Offset       int
	Limit        int
	Sort         string
	Descending   bool
	VehicleTypes []string
	Features     []string
	Search       string
	Origin       *Coordinate
}

// Defaults configures one endpoint's fallback behavior. Every list endpoint
// gets its own instance instead of hardcoding page sizes per call site.
type Defaults struct {
	Limit      int
	MaxLimit   int
	Sort       string
	Descending bool
}

// Build parses raw query parameters into a descriptor. It is total:
// unrecognized or malformed values fall back to defaults, never to an error.
func (d Defaults) Build(params url.Values) Descriptor {
	limit := d.Limit
	if v, err := strconv.Atoi(params.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if d.MaxLimit > 0 && limit > d.MaxLimit {
		limit = d.MaxLimit
	}

	offset := 0
	if v, err := strconv.Atoi(params.Get("offset")); err == nil && v > 0 {
		offset = v
	}

	desc := Descriptor{
		Offset:       offset,
		Limit:        limit,
		Sort:         d.Sort,
		Descending:   d.Descending,
		VehicleTypes: normalizeSet(params["vehicle_type"]),
		Features:     normalizeSet(params["features"]),
		Search:       strings.TrimSpace(params.Get("search")),
		Origin:       parseOrigin(params),
	}

	ordering := strings.TrimSpace(params.Get("ordering"))
	descending := strings.HasPrefix(ordering, "-")
	switch key := strings.TrimPrefix(ordering, "-"); key {
	case SortPrice, SortRating, SortDistance:
		desc.Sort = key
		desc.Descending = descending
	}

	// Distance ordering without a usable origin degrades to the endpoint
	// default instead of failing the request.
	if desc.Sort == SortDistance && desc.Origin == nil {
		desc.Sort = d.Sort
		desc.Descending = d.Descending
	}

	return desc
}

// Encode serializes a descriptor back into wire parameters. Together with
// Build it round-trips: Build(Encode(d)) reproduces d for any built d.
func Encode(d Descriptor) url.Values {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(d.Offset))
	params.Set("limit", strconv.Itoa(d.Limit))

	ordering := d.Sort
	if d.Descending {
		ordering = "-" + ordering
	}
	params.Set("ordering", ordering)

	for _, v := range d.VehicleTypes {
		params.Add("vehicle_type", v)
	}
	for _, f := range d.Features {
		params.Add("features", f)
	}
	if d.Search != "" {
		params.Set("search", d.Search)
	}
	if d.Origin != nil {
		params.Set("latitude", strconv.FormatFloat(d.Origin.Latitude, 'f', -1, 64))
		params.Set("longitude", strconv.FormatFloat(d.Origin.Longitude, 'f', -1, 64))
	}
	return params
}

func parseOrigin(params url.Values) *Coordinate {
	latRaw := strings.TrimSpace(params.Get("latitude"))
	lngRaw := strings.TrimSpace(params.Get("longitude"))
	if latRaw == "" || lngRaw == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil
	}
	return &Coordinate{Latitude: lat, Longitude: lng}
}

// normalizeSet trims, dedupes and sorts multi-valued filter parameters so two
// requests with the same values in different order produce equal descriptors.
// An empty result means "no filter on this dimension".
func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
