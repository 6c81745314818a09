package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/entigraph/pkg/graph"
)

// DimAlpha is the opacity of nodes outside a highlighted neighborhood.
const DimAlpha = 0.3

// Color is an RGB color with opacity.
type Color struct {
	R, G, B uint8
	A       float64
}

// Transparent is the color of hidden nodes.
var Transparent = Color{}

// Palette maps entity types to their base colors.
var Palette = map[graph.EntityType]Color{
	graph.Person:  MustParseHex("#FF6B6B"),
	graph.Org:     MustParseHex("#4ECDC4"),
	graph.GPE:     MustParseHex("#45B7D1"),
	graph.Product: MustParseHex("#96CEB4"),
	graph.Unknown: MustParseHex("#CCCCCC"),
}

// BaseColor returns the palette color for t, falling back to the UNKNOWN
// color.
func BaseColor(t graph.EntityType) Color {
	if c, ok := Palette[t]; ok {
		return c
	}
	return Palette[graph.Unknown]
}

// ParseHex parses "#RRGGBB" into an opaque Color.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, nil
}

// MustParseHex is like [ParseHex] but panics on error.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Dim returns c with [DimAlpha] opacity.
func (c Color) Dim() Color {
	c.A = DimAlpha
	return c
}

// Hex returns "#RRGGBB", ignoring opacity.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// IsTransparent reports whether c has zero opacity.
func (c Color) IsTransparent() bool { return c.A == 0 }

// String returns "#RRGGBB" for opaque colors and "rgba(r,g,b,a)" otherwise.
func (c Color) String() string {
	if c.A >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// MarshalJSON encodes the color as its CSS string.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}
