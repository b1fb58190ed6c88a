// Package query models the caller-facing search query: JSON decoding with
// strict field checking, per-call defaults, and the hard result cap.
package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Built-in query defaults.
const (
	DefaultLimit            = 20
	DefaultCropLength       = 10
	DefaultCropMarker       = "…"
	DefaultHighlightPreTag  = "<em>"
	DefaultHighlightPostTag = "</em>"
)

// HardResultLimit is the maximum number of results one search call can
// reach, regardless of offset and limit. The effective offset is clamped to
// it and the effective limit to whatever room remains.
const HardResultLimit = 1000

// Defaults holds the per-call default values applied to absent query
// fields. Modeled as an explicit struct so the core carries no hidden
// process-wide state.
type Defaults struct {
	Limit            int
	CropLength       int
	CropMarker       string
	HighlightPreTag  string
	HighlightPostTag string
}

// StandardDefaults returns the documented defaults.
func StandardDefaults() Defaults {
	return Defaults{
		Limit:            DefaultLimit,
		CropLength:       DefaultCropLength,
		CropMarker:       DefaultCropMarker,
		HighlightPreTag:  DefaultHighlightPreTag,
		HighlightPostTag: DefaultHighlightPostTag,
	}
}

// Query is a decoded search query. Nil slices mean "field absent": absent
// attributesToRetrieve retrieves everything displayed, absent sort and
// facets disable sorting and faceting.
type Query struct {
	Q                     string
	Offset                int
	Limit                 int
	AttributesToRetrieve  []string
	AttributesToCrop      []string
	CropLength            int
	AttributesToHighlight []string
	ShowMatchesPosition   bool
	Filter                any
	Sort                  []string
	Facets                []string
	HighlightPreTag       string
	HighlightPostTag      string
	CropMarker            string
}

// payload mirrors the lowerCamelCase JSON surface. Pointers distinguish
// absent fields from zero values.
type payload struct {
	Q                     *string         `json:"q"`
	Offset                *int            `json:"offset"`
	Limit                 *int            `json:"limit"`
	AttributesToRetrieve  []string        `json:"attributesToRetrieve"`
	AttributesToCrop      []string        `json:"attributesToCrop"`
	CropLength            *int            `json:"cropLength"`
	AttributesToHighlight []string        `json:"attributesToHighlight"`
	ShowMatchesPosition   *bool           `json:"showMatchesPosition"`
	Filter                json.RawMessage `json:"filter"`
	Sort                  []string        `json:"sort"`
	Facets                []string        `json:"facets"`
	HighlightPreTag       *string         `json:"highlightPreTag"`
	HighlightPostTag      *string         `json:"highlightPostTag"`
	CropMarker            *string         `json:"cropMarker"`
}

// Decode parses a JSON query payload, applying defaults to absent fields.
// Unknown fields are rejected, not ignored.
func Decode(data []byte, d Defaults) (Query, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p payload
	if err := dec.Decode(&p); err != nil {
		return Query{}, fmt.Errorf("decode query: %w", err)
	}

	q := Query{
		Limit:            d.Limit,
		CropLength:       d.CropLength,
		CropMarker:       d.CropMarker,
		HighlightPreTag:  d.HighlightPreTag,
		HighlightPostTag: d.HighlightPostTag,

		AttributesToRetrieve:  p.AttributesToRetrieve,
		AttributesToCrop:      p.AttributesToCrop,
		AttributesToHighlight: p.AttributesToHighlight,
		Sort:                  p.Sort,
		Facets:                p.Facets,
	}
	if p.Q != nil {
		q.Q = *p.Q
	}
	if p.Offset != nil {
		if *p.Offset < 0 {
			return Query{}, fmt.Errorf("offset must not be negative, got %d", *p.Offset)
		}
		q.Offset = *p.Offset
	}
	if p.Limit != nil {
		if *p.Limit < 0 {
			return Query{}, fmt.Errorf("limit must not be negative, got %d", *p.Limit)
		}
		q.Limit = *p.Limit
	}
	if p.CropLength != nil {
		if *p.CropLength < 0 {
			return Query{}, fmt.Errorf("cropLength must not be negative, got %d", *p.CropLength)
		}
		q.CropLength = *p.CropLength
	}
	if p.ShowMatchesPosition != nil {
		q.ShowMatchesPosition = *p.ShowMatchesPosition
	}
	if p.HighlightPreTag != nil {
		q.HighlightPreTag = *p.HighlightPreTag
	}
	if p.HighlightPostTag != nil {
		q.HighlightPostTag = *p.HighlightPostTag
	}
	if p.CropMarker != nil {
		q.CropMarker = *p.CropMarker
	}
	if len(p.Filter) > 0 {
		var v any
		if err := json.Unmarshal(p.Filter, &v); err != nil {
			return Query{}, fmt.Errorf("decode filter: %w", err)
		}
		q.Filter = v
	}
	return q, nil
}

// Bounds returns the effective offset and limit after hard-cap clamping:
// offset ≤ HardResultLimit and offset + limit ≤ HardResultLimit always
// hold, so no request can force the engine beyond the cap.
func (q *Query) Bounds() (offset, limit int) {
	offset = q.Offset
	if offset > HardResultLimit {
		offset = HardResultLimit
	}
	limit = q.Limit
	if limit > HardResultLimit-offset {
		limit = HardResultLimit - offset
	}
	return offset, limit
}
