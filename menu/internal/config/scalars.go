package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Width is a dimension in pixels, or Auto to size to content.
// In the config file it is written as a bare number ("320"), a number with a
// px suffix ("320px"), or a keyword: auto | small | medium | large.
type Width struct {
	Auto  bool
	Value float64
}

// Named widths accepted in place of a number.
var widthKeywords = map[string]float64{
	"small":  240,
	"medium": 400,
	"large":  640,
}

// ParseWidth parses a width token.
func ParseWidth(s string) (Width, error) {
	tok := strings.ToLower(strings.TrimSpace(s))
	if tok == "" {
		return Width{}, fmt.Errorf("width: empty value")
	}
	if tok == "auto" {
		return Width{Auto: true}, nil
	}
	if v, ok := widthKeywords[tok]; ok {
		return Width{Value: v}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "px"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Width{}, fmt.Errorf("width: %q is not a number or one of auto|small|medium|large", s)
	}
	if v < 0 {
		return Width{}, fmt.Errorf("width: %q must not be negative", s)
	}
	return Width{Value: v}, nil
}

func (w Width) String() string {
	if w.Auto {
		return "auto"
	}
	return strconv.FormatFloat(w.Value, 'f', -1, 64)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *Width) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: width must be a scalar", n.Line)
	}
	parsed, err := ParseWidth(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*w = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (w Width) MarshalYAML() (interface{}, error) {
	return w.String(), nil
}

// Brush is a solid colour with an alpha channel and a stroke thickness.
// In the config file it is written as a colour token optionally followed by a
// thickness: "#3f51b5", "#803f51b5 2", "white", "transparent".
// The thickness defaults to 1 and only matters where the brush draws a border.
type Brush struct {
	Color     colorful.Color
	Alpha     uint8
	Thickness int
}

// Colours accepted by name. Values are the CSS basic colour keywords.
var namedColors = map[string]string{
	"black":   "#000000",
	"silver":  "#c0c0c0",
	"gray":    "#808080",
	"grey":    "#808080",
	"white":   "#ffffff",
	"maroon":  "#800000",
	"red":     "#ff0000",
	"purple":  "#800080",
	"fuchsia": "#ff00ff",
	"magenta": "#ff00ff",
	"green":   "#008000",
	"lime":    "#00ff00",
	"olive":   "#808000",
	"yellow":  "#ffff00",
	"navy":    "#000080",
	"blue":    "#0000ff",
	"teal":    "#008080",
	"aqua":    "#00ffff",
	"cyan":    "#00ffff",
	"orange":  "#ffa500",
}

// ParseBrush parses a brush token.
func ParseBrush(s string) (Brush, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Brush{}, fmt.Errorf("brush: %q: want \"<colour> [thickness]\"", s)
	}

	b, err := parseColor(fields[0])
	if err != nil {
		return Brush{}, err
	}
	b.Thickness = 1
	if len(fields) == 2 {
		t, err := strconv.Atoi(fields[1])
		if err != nil || t < 0 {
			return Brush{}, fmt.Errorf("brush: %q: thickness must be a non-negative integer", s)
		}
		b.Thickness = t
	}
	return b, nil
}

// MustParseBrush is like ParseBrush but panics on error.
// It is intended for built-in defaults.
func MustParseBrush(s string) Brush {
	b, err := ParseBrush(s)
	if err != nil {
		panic(err)
	}
	return b
}

func parseColor(tok string) (Brush, error) {
	name := strings.ToLower(tok)
	if name == "transparent" {
		return Brush{Alpha: 0}, nil
	}
	if hex, ok := namedColors[name]; ok {
		name = hex
	}
	if !strings.HasPrefix(name, "#") {
		return Brush{}, fmt.Errorf("brush: unknown colour %q", tok)
	}

	alpha := uint8(0xff)
	if len(name) == 9 {
		a, err := strconv.ParseUint(name[1:3], 16, 8)
		if err != nil {
			return Brush{}, fmt.Errorf("brush: %q: invalid alpha: %w", tok, err)
		}
		alpha = uint8(a)
		name = "#" + name[3:]
	}
	c, err := colorful.Hex(name)
	if err != nil {
		return Brush{}, fmt.Errorf("brush: %w", err)
	}
	return Brush{Color: c, Alpha: alpha}, nil
}

// Transparent reports whether the brush paints nothing.
func (b Brush) Transparent() bool {
	return b.Alpha == 0
}

// Hex returns the colour as #rrggbb, or #aarrggbb when it is not opaque.
func (b Brush) Hex() string {
	rgb := b.Color.Hex()
	if b.Alpha == 0xff {
		return rgb
	}
	return fmt.Sprintf("#%02x%s", b.Alpha, rgb[1:])
}

func (b Brush) String() string {
	if b.Thickness == 1 {
		return b.Hex()
	}
	return fmt.Sprintf("%s %d", b.Hex(), b.Thickness)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Brush) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: brush must be a scalar", n.Line)
	}
	parsed, err := ParseBrush(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*b = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (b Brush) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}
