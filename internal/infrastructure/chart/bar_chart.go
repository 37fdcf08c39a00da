// Package chart renders the session's average grades as a bar chart and hands
// the image to the desktop viewer.
package chart

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

const (
	Title      = "Average Grades of Students"
	XAxisLabel = "Students"
	YAxisLabel = "Average Grade"

	DefaultWidth  = 1000
	DefaultHeight = 600

	labelRotation = 45.0
	axisFontSize  = 11.0
	titleFontSize = 16.0
	maxBarWidth   = 60
	minBarWidth   = 8
)

// SkyBlue is the bar fill color.
var SkyBlue = drawing.Color{R: 135, G: 206, B: 235, A: 255}

var yTicks = []gochart.Tick{
	{Value: 0, Label: "0"},
	{Value: 20, Label: "20"},
	{Value: 40, Label: "40"},
	{Value: 60, Label: "60"},
	{Value: 80, Label: "80"},
	{Value: 100, Label: "100"},
}

// ══════════════════════════════════════════════════════════════════════════════
// OPTIONS
// ══════════════════════════════════════════════════════════════════════════════

// Options controls the rendered image and where it is written for the viewer.
type Options struct {
	Width  int
	Height int

	// Dir holds the temporary PNG. Empty means os.TempDir().
	Dir string

	// Open launches the viewer after writing. When false only the file is written.
	Open bool
}

// DefaultOptions returns a 1000x600 chart that opens in the viewer.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight, Open: true}
}

// ══════════════════════════════════════════════════════════════════════════════
// RENDERER
// ══════════════════════════════════════════════════════════════════════════════

// Renderer draws the averages chart.
type Renderer struct {
	opts   Options
	viewer Viewer
	log    *logger.Logger
}

// NewRenderer creates a Renderer. A nil viewer means the system viewer.
func NewRenderer(opts Options, viewer Viewer, log *logger.Logger) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if viewer == nil {
		viewer = NewSystemViewer()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{opts: opts, viewer: viewer, log: log.With(logger.Component("chart"))}
}

// CheckRenderable verifies the collection can be charted: it must be non-empty
// and every record must carry an average.
func CheckRenderable(students []*student.Student) error {
	if len(students) == 0 {
		return shared.ErrNoStudents
	}
	for _, st := range students {
		if !st.HasAverage() {
			return shared.ErrMissingAverage.Wrap(
				fmt.Sprintf("average grade not calculated for '%s'", st.Name), nil)
		}
	}
	return nil
}

// Render writes the chart as PNG to w.
func (c *Renderer) Render(w io.Writer, students []*student.Student) error {
	if err := CheckRenderable(students); err != nil {
		return err
	}
	if err := c.barChart(students).Render(gochart.PNG, w); err != nil {
		return shared.ErrChartDisplay.Wrap("failed to render chart", err)
	}
	return nil
}

// Display renders the chart to a PNG file and opens it in the viewer.
// It returns the file path. The file is left in place for the viewer to read.
func (c *Renderer) Display(ctx context.Context, students []*student.Student) (string, error) {
	if err := CheckRenderable(students); err != nil {
		return "", err
	}
	start := time.Now()

	f, err := os.CreateTemp(c.opts.Dir, "student-averages-*.png")
	if err != nil {
		return "", shared.ErrChartDisplay.Wrap("failed to create chart file", err)
	}
	path := f.Name()

	if err := c.Render(f, students); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", shared.ErrChartDisplay.Wrap("failed to write chart file", err)
	}

	c.log.Info("chart rendered",
		logger.Count(len(students)),
		logger.Location(path),
		logger.Latency(time.Since(start)),
	)

	if !c.opts.Open {
		return path, nil
	}
	if err := c.viewer.Open(ctx, path); err != nil {
		c.log.Warn("viewer failed", logger.Location(path), logger.Err(err))
		return path, shared.ErrChartDisplay.Wrap("failed to open chart viewer", err)
	}
	return path, nil
}

func (c *Renderer) barChart(students []*student.Student) gochart.BarChart {
	bars := make([]gochart.Value, len(students))
	for i, st := range students {
		bars[i] = gochart.Value{
			Label: st.Name,
			Value: st.AverageOrZero(),
			Style: gochart.Style{FillColor: SkyBlue, StrokeColor: SkyBlue, StrokeWidth: 1},
		}
	}

	return gochart.BarChart{
		Title:      Title,
		TitleStyle: gochart.Style{FontSize: titleFontSize},
		Width:      c.opts.Width,
		Height:     c.opts.Height,
		BarWidth:   c.barWidth(len(students)),
		Background: gochart.Style{Padding: gochart.Box{Top: 50, Left: 50, Right: 20, Bottom: 40}},
		XAxis:      gochart.Style{TextRotationDegrees: labelRotation, FontSize: axisFontSize},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 100},
			Ticks: yTicks,
			Style: gochart.Style{FontSize: axisFontSize},
		},
		Bars:     bars,
		Elements: []gochart.Renderable{axisLabels(c.opts.Height)},
	}
}

// barWidth fits n bars into the plot area, within [minBarWidth, maxBarWidth].
func (c *Renderer) barWidth(n int) int {
	w := (c.opts.Width - 120) / (2 * n)
	if w > maxBarWidth {
		return maxBarWidth
	}
	if w < minBarWidth {
		return minBarWidth
	}
	return w
}

// axisLabels draws the axis names, which BarChart has no slot for.
func axisLabels(height int) gochart.Renderable {
	return func(r gochart.Renderer, canvas gochart.Box, defaults gochart.Style) {
		style := gochart.Style{FontSize: axisFontSize + 1, FontColor: drawing.ColorBlack}.InheritFrom(defaults)

		xBox := gochart.Draw.MeasureText(r, XAxisLabel, style)
		gochart.Draw.Text(r, XAxisLabel, canvas.Left+(canvas.Width()-xBox.Width())/2, height-10, style)

		yStyle := style
		yStyle.TextRotationDegrees = 270
		yBox := gochart.Draw.MeasureText(r, YAxisLabel, style)
		gochart.Draw.Text(r, YAxisLabel, 20, canvas.Top+(canvas.Height()+yBox.Width())/2, yStyle)
	}
}
