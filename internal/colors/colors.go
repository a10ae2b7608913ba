// Package colors assigns category colors and derives slice colors for the
// drill-down chart. Category colors come from a fixed palette; once the
// palette is exhausted, new colors are synthesized in HSL space.
package colors

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Palette holds the predefined category colors, chosen for visual
// distinctiveness on the pie chart.
var Palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
	"#bcf60c", "#fabebe", "#008080", "#e6beff",
	"#9a6324", "#800000", "#aaffc3", "#808000",
}

// Assign picks a color not present in used, uniformly at random from the
// remaining palette entries. When every palette color is taken it
// synthesizes a fresh one. Uniqueness is best-effort: two concurrent
// assignments may still pick the same color.
func Assign(used map[string]bool) string {
	remaining := make([]string, 0, len(Palette))
	for _, c := range Palette {
		if !used[strings.ToLower(c)] {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) > 0 {
		return remaining[rand.IntN(len(remaining))]
	}

	h := rand.Float64() * 360
	s := 70 + rand.Float64()*30
	l := 50 + rand.Float64()*20
	return HSLToHex(h, s, l)
}

// HSLToHex converts hue [0,360), saturation [0,100] and lightness [0,100]
// to a "#rrggbb" string.
func HSLToHex(h, s, l float64) string {
	l /= 100
	a := s * math.Min(l, 1-l) / 100
	channel := func(n float64) int {
		k := math.Mod(n+h/30, 12)
		c := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return int(math.Round(255 * c))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(0), channel(8), channel(4))
}

// Shade derives a slice color from a category's base color. The offset
// depends only on the index, so subcategory and activity slices get stable,
// related variations of the parent color without persisting extra state.
func Shade(base string, index int) string {
	r, g, b, ok := parseHex(base)
	if !ok {
		return base
	}

	const step, span = 37, 120
	offset := (index*step)%span - span/2

	shift := func(c int) int {
		c += offset
		// Keep channels inside a band that stays readable on the chart.
		if c < 30 {
			c = 30
		}
		if c > 225 {
			c = 225
		}
		return c
	}
	return fmt.Sprintf("#%02x%02x%02x", shift(r), shift(g), shift(b))
}

func parseHex(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff), true
}
