package graph

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/entigraph/pkg/errors"
)

// NormalizeEdge converts one raw edge into its canonical form.
//
// Accepted shapes:
//
//	["A", "B"]                     pair (extra elements ignored)
//	{"source": "A", "target": "B"} record
//	{"0": "A", "1": "B"}           array-like object
//
// Any other shape, or an endpoint that is not a non-empty string, returns a
// MALFORMED_EDGE error.
func NormalizeEdge(raw json.RawMessage) (Edge, error) {
	if !gjson.ValidBytes(raw) {
		return Edge{}, errors.New(errors.ErrCodeMalformedEdge, "invalid JSON %s", truncate(raw))
	}
	v := gjson.ParseBytes(raw)

	var a, b gjson.Result
	switch {
	case v.IsArray():
		elems := v.Array()
		if len(elems) < 2 {
			return Edge{}, errors.New(errors.ErrCodeMalformedEdge, "pair has %d elements", len(elems))
		}
		a, b = elems[0], elems[1]
	case v.IsObject() && v.Get("source").Exists():
		a, b = v.Get("source"), v.Get("target")
	case v.IsObject() && v.Get("0").Exists():
		a, b = v.Get("0"), v.Get("1")
	default:
		return Edge{}, errors.New(errors.ErrCodeMalformedEdge, "unrecognized edge shape %s", truncate(raw))
	}

	if !isIdentifier(a) || !isIdentifier(b) {
		return Edge{}, errors.New(errors.ErrCodeMalformedEdge, "edge endpoints must be non-empty strings: %s", truncate(raw))
	}
	return Edge{Source: a.Str, Target: b.Str}, nil
}

func isIdentifier(r gjson.Result) bool {
	return r.Type == gjson.String && r.Str != ""
}

// parsePosition reads an [x, y] pair or an {"x":..,"y":..} object.
func parsePosition(raw json.RawMessage) (Point, bool) {
	if !gjson.ValidBytes(raw) {
		return Point{}, false
	}
	v := gjson.ParseBytes(raw)

	var x, y gjson.Result
	switch {
	case v.IsArray():
		elems := v.Array()
		if len(elems) < 2 {
			return Point{}, false
		}
		x, y = elems[0], elems[1]
	case v.IsObject():
		x, y = v.Get("x"), v.Get("y")
	default:
		return Point{}, false
	}
	if x.Type != gjson.Number || y.Type != gjson.Number {
		return Point{}, false
	}
	return Point{X: x.Num, Y: y.Num}, true
}

func truncate(raw json.RawMessage) string {
	const limit = 64
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
