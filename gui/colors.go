package gui

import (
	"fmt"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultColors index the four composite pixel states: blank, first
// plane, second plane, both planes.
var DefaultColors = [4]rl.Color{
	rl.NewColor(0x00, 0x00, 0x00, 0xFF),
	rl.NewColor(0xFF, 0x33, 0xCC, 0xFF),
	rl.NewColor(0x33, 0xCC, 0xFF, 0xFF),
	rl.NewColor(0xFF, 0xFF, 0xFF, 0xFF),
}

// ParseHexColor turns an RRGGBB string, with or without a leading '#',
// into a raylib color.
func ParseHexColor(s string) (rl.Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return rl.Color{}, fmt.Errorf("expected an RRGGBB color, got %q", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rl.Color{}, fmt.Errorf("expected an RRGGBB color, got %q", s)
	}

	return rl.NewColor(byte(v>>16), byte(v>>8), byte(v), 0xFF), nil
}
