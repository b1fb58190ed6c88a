package geo

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
)

// GeoField is the reserved document field holding {"lat": .., "lng": ..}.
const GeoField = "_geo"

// DistanceField is the reserved result field the augmenter fills in.
const DistanceField = "_geoDistance"

var geoPointPattern = regexp.MustCompile(`_geoPoint\(\s*([0-9.\-]+)\s*,\s*([0-9.\-]+)\s*\)`)

// FirstPoint scans sort directives in order and returns the query point of
// the first one containing a _geoPoint literal. Later geo directives are
// ignored. Sort syntax is validated upstream, so a malformed numeric
// literal inside a matched directive is only guarded against, reported as
// no point found.
func FirstPoint(sorts []string) (lat, lng float64, ok bool) {
	for _, sort := range sorts {
		groups := geoPointPattern.FindStringSubmatch(sort)
		if groups == nil {
			continue
		}
		lat, latErr := strconv.ParseFloat(groups[1], 64)
		lng, lngErr := strconv.ParseFloat(groups[2], 64)
		if latErr != nil || lngErr != nil {
			return 0, 0, false
		}
		return lat, lng, true
	}
	return 0, 0, false
}

// InsertDistance computes the distance between the first _geoPoint sort
// directive and the document's _geo point, inserting it rounded to the
// nearest integer under _geoDistance. Documents without a usable _geo
// point, and sort lists without a geo directive, are left untouched.
func InsertDistance(sorts []string, document map[string]any) {
	baseLat, baseLng, ok := FirstPoint(sorts)
	if !ok {
		return
	}

	point, ok := document[GeoField].(map[string]any)
	if !ok {
		return
	}
	lat, latOK := asFloat(point["lat"])
	lng, lngOK := asFloat(point["lng"])
	if !latOK || !lngOK {
		return
	}

	distance := Haversine(baseLat, baseLng, lat, lng)
	document[DistanceField] = int64(math.Round(distance))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
