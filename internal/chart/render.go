package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoBars is returned by RenderPNG; a static image needs at least one bar.
var ErrNoBars = errors.New("chart has no bars")

// RenderHTML writes the interactive chart page. A spec with no bars renders an
// empty chart rather than failing.
func RenderHTML(w io.Writer, s Spec) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: Title, Width: "100%", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: XAxisTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: YAxisTitle, Min: 0, Max: 1}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item", Formatter: "{b}"}),
	)

	data := make([]opts.BarData, 0, len(s.Bars))
	for _, b := range s.Bars {
		data = append(data, opts.BarData{
			Name:      b.Hover,
			Value:     b.Value,
			ItemStyle: &opts.ItemStyle{Color: b.Color},
		})
	}

	bar.SetXAxis(s.Labels()).AddSeries(YAxisTitle, data,
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: s.ThresholdLabel, YAxis: s.Threshold}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Label:     &opts.Label{Show: opts.Bool(true), Formatter: "{b}"},
			LineStyle: &opts.LineStyle{Type: "dashed", Color: thresholdHex},
		}),
	)
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render chart page: %w", err)
	}
	return nil
}

const (
	pngWidth     = 1024
	thresholdHex = "#808080"
)

var thresholdColor = drawing.Color{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

// thresholdLine draws a dashed horizontal line at value across the plot.
// The y range is fixed to [0,1], so value maps linearly onto the canvas.
func thresholdLine(value float64) gochart.Renderable {
	return func(r gochart.Renderer, canvas gochart.Box, _ gochart.Style) {
		y := canvas.Bottom - int(math.Ceil(value*float64(canvas.Height())))
		r.SetStrokeColor(thresholdColor)
		r.SetStrokeWidth(2)
		r.SetStrokeDashArray([]float64{8, 4})
		r.MoveTo(canvas.Left, y)
		r.LineTo(canvas.Right, y)
		r.Stroke()
	}
}

// bars shrink so long texts still fit the fixed canvas
func barWidth(n int) int {
	w := (pngWidth - 200) / (n * 2)
	switch {
	case w > 40:
		return 40
	case w < 4:
		return 4
	}
	return w
}

// RenderPNG draws the static chart used by the spreadsheet export.
func RenderPNG(w io.Writer, s Spec) error {
	if s.Empty() {
		return ErrNoBars
	}
	values := make([]gochart.Value, 0, len(s.Bars))
	for _, b := range s.Bars {
		col := drawing.ColorFromHex(strings.TrimPrefix(b.Color, "#"))
		values = append(values, gochart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: gochart.Style{FillColor: col, StrokeColor: col},
		})
	}

	graph := gochart.BarChart{
		Title:      Title,
		Width:      pngWidth,
		Height:     400,
		BarWidth:   barWidth(len(values)),
		BarSpacing: barWidth(len(values)) / 2,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Name:  YAxisTitle,
			Range: &gochart.ContinuousRange{Min: 0, Max: 1},
			Ticks: []gochart.Tick{
				{Value: 0, Label: "0%"},
				{Value: s.Threshold, Label: s.ThresholdLabel},
				{Value: 1, Label: "100%"},
			},
		},
		Bars:     values,
		Elements: []gochart.Renderable{thresholdLine(s.Threshold)},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart png: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
