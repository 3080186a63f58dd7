package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/R3E-Network/rainwater/pkg/rainwater"
)

const (
	barCell   = "█"
	waterCell = "~"
	airCell   = " "
)

// RenderTerrain draws p as an elevation map, highest row first. Bars are
// drawn with a solid block, water with '~'. maxRows caps the drawing height;
// taller profiles are scaled down. Zero means no cap.
func (p *Printer) RenderTerrain(prof rainwater.Profile, maxRows int) {
	top := prof.MaxHeight()
	if top == 0 {
		fmt.Fprintln(p.w, "(flat terrain)")
		return
	}

	scale := 1
	if maxRows > 0 && top > maxRows {
		scale = (top + maxRows - 1) / maxRows
	}
	rows := (top + scale - 1) / scale
	labelWidth := len(strconv.Itoa(top))

	for row := rows; row >= 1; row-- {
		// a cell covers the band (floor, threshold]
		threshold := row * scale
		floor := threshold - scale
		var b strings.Builder
		for i, h := range prof.Heights {
			switch {
			case h > floor:
				b.WriteString(p.Colorize(barCell, ColorBold))
			case prof.WaterLevel(i) > floor:
				b.WriteString(p.Colorize(waterCell, ColorBlue))
			default:
				b.WriteString(airCell)
			}
		}
		fmt.Fprintf(p.w, "%*d |%s\n", labelWidth, threshold, b.String())
	}
	fmt.Fprintf(p.w, "%s +%s\n", strings.Repeat(" ", labelWidth), strings.Repeat("-", len(prof.Heights)))
}

// WriteProfile prints the derived profiles of p as aligned columns, followed
// by its basins and total.
func WriteProfile(w io.Writer, prof rainwater.Profile) {
	rows := []struct {
		label  string
		values []int
	}{
		{"index", indexes(len(prof.Heights))},
		{"height", prof.Heights},
		{"left_highest", prof.LeftHighest},
		{"right_highest", prof.RightHighest},
		{"water", prof.Water},
	}

	width := 1
	for _, r := range rows {
		for _, v := range r.values {
			if n := len(strconv.Itoa(v)); n > width {
				width = n
			}
		}
	}

	for _, r := range rows {
		fmt.Fprintf(w, "%-13s", r.label)
		for _, v := range r.values {
			fmt.Fprintf(w, " %*d", width, v)
		}
		fmt.Fprintln(w)
	}

	basins := rainwater.Basins(prof)
	if len(basins) == 0 {
		fmt.Fprintln(w, "basins        none")
	}
	for _, b := range basins {
		fmt.Fprintf(w, "basin         [%d..%d] level=%d volume=%d\n", b.Start, b.End, b.Level, b.Volume)
	}
	fmt.Fprintf(w, "total         %d\n", prof.Total)
}

func indexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
