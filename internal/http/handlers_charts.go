package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"funding/internal/analysis"
	"funding/internal/dataset"
	applog "funding/internal/log"
	"funding/internal/render"
	"funding/internal/services"
)

// handleChart serves one chart as SVG. Charts with nothing to draw, and
// failed lookups, still return an image so the page layout holds.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("chart")
	p := ParseDashboardParams(r.URL.Query())
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	c, err := s.dashboard.Chart(ctx, name, services.ChartParams{Trend: p.Trend, Name: p.Name})
	switch {
	case errors.Is(err, services.ErrUnknownChart):
		s.placeholder(w, http.StatusNotFound, "Unknown chart")
		return
	case errors.Is(err, analysis.ErrNoData):
		s.placeholder(w, http.StatusNotFound, "No data")
		return
	case errors.Is(err, dataset.ErrNotLoaded):
		s.placeholder(w, http.StatusServiceUnavailable, "Dataset not loaded")
		return
	case err != nil:
		s.views.LogError(r.Context(), "Chart computation failed", err, applog.OpRender,
			applog.LogFields{applog.FieldChart: name})
		s.placeholder(w, http.StatusInternalServerError, "Chart unavailable")
		return
	}

	var buf bytes.Buffer
	if err := drawChart(&buf, c); err != nil {
		if !errors.Is(err, render.ErrNothingToDraw) {
			s.views.LogError(r.Context(), "Chart rendering failed", err, applog.OpRender,
				applog.LogFields{applog.FieldChart: name})
			s.placeholder(w, http.StatusInternalServerError, "Chart unavailable")
			return
		}
		s.placeholder(w, http.StatusOK, "No data to display")
		return
	}
	NewResponse().Header("Cache-Control", "no-cache").SVG(buf.Bytes()).Write(w)
}

func drawChart(w io.Writer, c services.Chart) error {
	switch c.Shape {
	case services.ShapePie:
		return render.PieSVG(w, c.Title, c.Values)
	case services.ShapeLine:
		return render.LineSVG(w, c.Title, c.Values)
	default:
		return render.BarSVG(w, c.Title, c.Values)
	}
}

func (s *Server) placeholder(w http.ResponseWriter, status int, message string) {
	var buf bytes.Buffer
	_ = render.PlaceholderSVG(&buf, message)
	NewResponse().Status(status).Header("Cache-Control", "no-cache").SVG(buf.Bytes()).Write(w)
}
