// Package render draws dashboard charts as SVG and formats values for
// display.
package render

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToDraw is returned when a chart has no positive values.
var ErrNothingToDraw = errors.New("nothing to draw")

// Value is one labelled point of a chart.
type Value struct {
	Label string
	Value float64
}

const (
	defaultWidth  = 640
	defaultHeight = 400
	barWidth      = 36
	barSpacing    = 18
)

var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

// BarSVG writes a vertical bar chart.
func BarSVG(w io.Writer, title string, values []Value) error {
	if !hasPositive(values) {
		return ErrNothingToDraw
	}
	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{
			Label: Title(v.Label),
			Value: v.Value,
			Style: chart.Style{FillColor: drawing.ColorFromHex("008080"), StrokeColor: drawing.ColorFromHex("008080")},
		}
	}
	width := len(values)*(barWidth+barSpacing) + 120
	if width < defaultWidth {
		width = defaultWidth
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     defaultHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(values)},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// PieSVG writes a pie chart. Non-positive slices are left out.
func PieSVG(w io.Writer, title string, values []Value) error {
	var slices []chart.Value
	for i, v := range values {
		if v.Value <= 0 {
			continue
		}
		col := palette[i%len(palette)]
		slices = append(slices, chart.Value{
			Label: Title(v.Label),
			Value: v.Value,
			Style: chart.Style{FillColor: col, StrokeColor: drawing.ColorWhite},
		})
	}
	if len(slices) == 0 {
		return ErrNothingToDraw
	}
	pc := chart.PieChart{
		Title:  title,
		Width:  defaultHeight + 80,
		Height: defaultHeight + 80,
		Values: slices,
	}
	if err := pc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// LineSVG writes a line chart with one tick per value.
func LineSVG(w io.Writer, title string, values []Value) error {
	if len(values) == 0 {
		return ErrNothingToDraw
	}
	xs := make([]float64, len(values))
	ys := make([]float64, len(values))
	ticks := make([]chart.Tick, len(values))
	for i, v := range values {
		xs[i] = float64(i)
		ys[i] = v.Value
		ticks[i] = chart.Tick{Value: float64(i), Label: v.Label}
	}
	// Thin out labels on long series so they stay legible.
	if step := len(ticks)/24 + 1; step > 1 {
		for i := range ticks {
			if i%step != 0 {
				ticks[i].Label = ""
			}
		}
	}

	width := len(values)*24 + 160
	if width < defaultWidth {
		width = defaultWidth
	}
	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 40}},
		XAxis: chart.XAxis{
			Range:     &chart.ContinuousRange{Min: -0.5, Max: float64(len(values)) - 0.5},
			Ticks:     ticks,
			TickStyle: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(values)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: palette[0],
					StrokeWidth: 2,
					DotColor:    palette[0],
					DotWidth:    4,
				},
			},
		},
	}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}

// PlaceholderSVG writes a small SVG carrying only a message. Handlers use it
// when a chart has nothing to draw.
func PlaceholderSVG(w io.Writer, message string) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="80" viewBox="0 0 %d 80">`+
			`<text x="50%%" y="45" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#666">%s</text></svg>`,
		defaultWidth, defaultWidth, html.EscapeString(message))
	return err
}

func hasPositive(values []Value) bool {
	for _, v := range values {
		if v.Value > 0 {
			return true
		}
	}
	return false
}

// headroom returns an upper axis bound 10% above the largest value, and 1
// for all-zero input so the range is never empty.
func headroom(values []Value) float64 {
	top := 0.0
	for _, v := range values {
		top = math.Max(top, v.Value)
	}
	if top <= 0 {
		return 1
	}
	return top * 1.1
}
