package show

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is a colorful.Color written as "#rrggbb" in show files.
type Color struct {
	colorful.Color
}

// MustColor parses a hex color and panics if it is malformed. It is meant for literals.
func MustColor(hex string) Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return Color{c}
}

// UnmarshalYAML decodes a hex string.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("%w: line %d: %q is not a hex color", ErrInvalidConfig, n.Line, s)
	}
	c.Color = col
	return nil
}

// MarshalYAML encodes the color as a hex string.
func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}
