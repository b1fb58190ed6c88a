// Package sorting parses sort directives of the form "<field>:asc" or
// "<field>:desc", including the reserved "_geoPoint(lat,lng)" field.
package sorting

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction orders a sort criterion.
type Direction int

// Sort directions.
const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Criterion is one parsed sort directive. Field keeps the raw selector,
// including a full "_geoPoint(..)" literal for geo sorts.
type Criterion struct {
	Field     string
	Direction Direction
}

func (c Criterion) String() string {
	return c.Field + ":" + c.Direction.String()
}

// SyntaxError reports an unparseable sort directive.
type SyntaxError struct {
	Token string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf(
		"invalid syntax for the sort parameter: expected expression ending by `:asc` or `:desc`, found %q",
		e.Token,
	)
}

const geoPointPrefix = "_geoPoint("

// Parse parses a single sort directive.
func Parse(token string) (Criterion, error) {
	i := strings.LastIndexByte(token, ':')
	if i <= 0 {
		return Criterion{}, &SyntaxError{Token: token}
	}
	field, suffix := token[:i], token[i+1:]

	var dir Direction
	switch suffix {
	case "asc":
		dir = Asc
	case "desc":
		dir = Desc
	default:
		return Criterion{}, &SyntaxError{Token: token}
	}

	if strings.HasPrefix(field, geoPointPrefix) {
		if !validGeoPoint(field) {
			return Criterion{}, &SyntaxError{Token: token}
		}
	}
	return Criterion{Field: field, Direction: dir}, nil
}

// ParseList parses every directive, failing fast on the first invalid
// token. A sort list is all-or-nothing.
func ParseList(tokens []string) ([]Criterion, error) {
	criteria := make([]Criterion, 0, len(tokens))
	for _, token := range tokens {
		c, err := Parse(token)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, nil
}

// validGeoPoint checks that a "_geoPoint(lat,lng)" literal carries two
// parseable floats. The geo augmenter trusts directives accepted here.
func validGeoPoint(field string) bool {
	if !strings.HasSuffix(field, ")") {
		return false
	}
	inner := field[len(geoPointPrefix) : len(field)-1]
	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return false
	}
	for _, p := range parts {
		if _, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return false
		}
	}
	return true
}
