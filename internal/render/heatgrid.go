package render

import (
	"fmt"
	"strconv"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"funding/internal/analysis"
)

// HeatCell is one annotated, shaded grid cell.
type HeatCell struct {
	Label string
	Fill  string
	Ink   string
}

// HeatRow is one month of the grid.
type HeatRow struct {
	Month string
	Cells []HeatCell
}

// HeatGrid is the template model of a month by year heatmap.
type HeatGrid struct {
	Years []string
	Rows  []HeatRow
}

// Empty reports whether the grid has no cells.
func (g HeatGrid) Empty() bool {
	return len(g.Rows) == 0 || len(g.Years) == 0
}

// Yellow, green, blue ramp from light to dark.
var heatRamp = []drawing.Color{
	drawing.ColorFromHex("ffffd9"),
	drawing.ColorFromHex("c7e9b4"),
	drawing.ColorFromHex("41b6c4"),
	drawing.ColorFromHex("225ea8"),
	drawing.ColorFromHex("081d58"),
}

// NewHeatGrid shades every cell relative to the largest value and annotates
// it with the value rounded to a whole number.
func NewHeatGrid(h analysis.Heatmap) HeatGrid {
	g := HeatGrid{Years: make([]string, len(h.Years))}
	for i, y := range h.Years {
		g.Years[i] = strconv.Itoa(y)
	}
	top := h.Max()
	for i, m := range h.Months {
		row := HeatRow{Month: MonthName(m)}
		for _, v := range h.Cells[i] {
			ratio := 0.0
			if top.IsPositive() {
				ratio = v.Div(top).InexactFloat64()
			}
			fill := shade(ratio)
			ink := "#000"
			if ratio > 0.6 {
				ink = "#fff"
			}
			row.Cells = append(row.Cells, HeatCell{
				Label: v.Round(0).StringFixed(0),
				Fill:  hex(fill),
				Ink:   ink,
			})
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// shade interpolates the ramp at ratio in [0, 1].
func shade(ratio float64) drawing.Color {
	if ratio <= 0 {
		return heatRamp[0]
	}
	if ratio >= 1 {
		return heatRamp[len(heatRamp)-1]
	}
	pos := ratio * float64(len(heatRamp)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := heatRamp[i], heatRamp[i+1]
	return drawing.Color{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 255,
	}
}

func hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
