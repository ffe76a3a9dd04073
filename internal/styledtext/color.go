// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styledtext

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette resolves the eight base color codes.
type Palette struct {
	Normal [8]color.RGBA
	Bright [8]color.RGBA
	// Background colors are fixed regardless of the bright flag.
	Background [8]color.RGBA
}

// Base color indices, in SGR order (30+i / 40+i).
const (
	Black = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// packedBackground holds the background table as 0xRRGGBBAA.
var packedBackground = [8]uint32{
	0x000000FF, // black
	0xAA0000FF, // red
	0x00AA00FF, // green
	0xAA5500FF, // yellow
	0x0000AAFF, // blue
	0xAA00AAFF, // magenta
	0x00AAAAFF, // cyan
	0xAAAAAAFF, // white
}

// DefaultPalette returns the VGA color set.
func DefaultPalette() Palette {
	p := Palette{
		Normal: [8]color.RGBA{
			{R: 0, G: 0, B: 0, A: 255},
			{R: 170, G: 0, B: 0, A: 255},
			{R: 0, G: 170, B: 0, A: 255},
			{R: 170, G: 85, B: 0, A: 255},
			{R: 0, G: 0, B: 170, A: 255},
			{R: 170, G: 0, B: 170, A: 255},
			{R: 0, G: 170, B: 170, A: 255},
			{R: 170, G: 170, B: 170, A: 255},
		},
		Bright: [8]color.RGBA{
			{R: 85, G: 85, B: 85, A: 255},
			{R: 255, G: 85, B: 85, A: 255},
			{R: 85, G: 255, B: 85, A: 255},
			{R: 255, G: 255, B: 85, A: 255},
			{R: 85, G: 85, B: 255, A: 255},
			{R: 255, G: 85, B: 255, A: 255},
			{R: 85, G: 255, B: 255, A: 255},
			{R: 255, G: 255, B: 255, A: 255},
		},
	}
	for i, packed := range packedBackground {
		p.Background[i] = Unpack(packed)
	}
	return p
}

// Foreground resolves a base index against the normal or bright table.
func (p Palette) Foreground(index int, bright bool) color.RGBA {
	if bright {
		return p.Bright[index]
	}
	return p.Normal[index]
}

// Unpack converts 0xRRGGBBAA into a color.
func Unpack(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// Pack converts a color into 0xRRGGBBAA.
func Pack(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Hex formats a color as #rrggbb, the form lipgloss accepts.
func Hex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0F]
	}
	return string(b)
}

// ParseHex parses #rrggbb or #rgb into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Unpack(uint32(v)<<8 | 0xFF), nil
}
