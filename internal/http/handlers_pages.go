package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"funding/internal/analysis"
	"funding/internal/dataset"
	applog "funding/internal/log"
	"funding/internal/render"
	"funding/internal/services"
)

// handleIndex renders the overall view, or the bare entity picker for the
// startup and investor modes. The picker alone never computes a profile.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p := ParseDashboardParams(r.URL.Query())
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	page := newPage(p.Mode)
	if p.Mode == services.ModeOverall {
		ov, err := s.dashboard.Overall(ctx, services.OverallOptions{Trend: p.Trend, Year: p.Year})
		if err != nil {
			s.viewError(w, r, page, err)
			return
		}
		page.Source = ov.Source
		page.Rows = render.Number(ov.Rows)
		page.LoadedAt = ov.LoadedAt.Format(time.RFC1123)
		page.Overall = newOverallView(ov)
	} else {
		names, err := s.dashboard.Entities(ctx, p.Mode)
		if err != nil {
			s.viewError(w, r, page, err)
			return
		}
		page.Picker = newPicker(p.Mode, names, "")
	}

	s.renderPage(w, r, http.StatusOK, page)
	s.views.LogViewServed(ctx, string(p.Mode), "", time.Since(start).Milliseconds())
}

func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	s.handleProfile(w, r, services.ModeStartup)
}

func (s *Server) handleInvestor(w http.ResponseWriter, r *http.Request) {
	s.handleProfile(w, r, services.ModeInvestor)
}

// handleProfile renders the picker and, once a name has been submitted,
// the matching profile. A lookup miss renders the no-data notice.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, mode services.Mode) {
	start := time.Now()
	p := ParseDashboardParams(r.URL.Query())
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	page := newPage(mode)
	names, err := s.dashboard.Entities(ctx, mode)
	if err != nil {
		s.viewError(w, r, page, err)
		return
	}
	page.Picker = newPicker(mode, names, p.Name)

	if p.HasName {
		switch mode {
		case services.ModeStartup:
			var sv services.StartupView
			if sv, err = s.dashboard.Startup(ctx, p.Name); err == nil {
				page.Startup = newStartupView(sv)
			}
		case services.ModeInvestor:
			var iv services.InvestorView
			if iv, err = s.dashboard.Investor(ctx, p.Name); err == nil {
				page.Investor = newInvestorView(iv)
			}
		}
		switch {
		case errors.Is(err, analysis.ErrNoData):
			page.NoData = true
			page.NoDataName = p.Name
		case err != nil:
			s.viewError(w, r, page, err)
			return
		}
	}

	s.renderPage(w, r, http.StatusOK, page)
	s.views.LogViewServed(ctx, string(mode), p.Name, time.Since(start).Milliseconds())
}

// viewError renders page with a notice and a status derived from err.
func (s *Server) viewError(w http.ResponseWriter, r *http.Request, page *pageData, err error) {
	status := http.StatusInternalServerError
	page.Message = "Something went wrong while computing this view."
	switch {
	case errors.Is(err, dataset.ErrNotLoaded):
		status = http.StatusServiceUnavailable
		page.Message = "The funding dataset has not been loaded yet."
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		page.Message = "The view took too long to compute."
	}
	s.views.LogError(r.Context(), "Dashboard view failed", err, applog.OpRender,
		applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, ""))
	s.renderPage(w, r, status, page)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page *pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		s.views.LogError(r.Context(), "Template execution failed", err, applog.OpRender, nil)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
