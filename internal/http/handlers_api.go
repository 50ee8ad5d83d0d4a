package http

import (
	"context"
	"errors"
	"net/http"

	"funding/internal/analysis"
	"funding/internal/dataset"
	applog "funding/internal/log"
	"funding/internal/services"
)

func (s *Server) handleAPIOverall(w http.ResponseWriter, r *http.Request) {
	p := ParseDashboardParams(r.URL.Query())
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	ov, err := s.dashboard.Overall(ctx, services.OverallOptions{Trend: p.Trend, Year: p.Year})
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	NewResponse().JSON(toOverviewDTO(ov)).Write(w)
}

func (s *Server) handleAPIStartup(w http.ResponseWriter, r *http.Request) {
	p := ParseDashboardParams(r.URL.Query())
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	sv, err := s.dashboard.Startup(ctx, p.Name)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	NewResponse().JSON(toStartupDTO(sv)).Write(w)
}

func (s *Server) handleAPIInvestor(w http.ResponseWriter, r *http.Request) {
	p := ParseDashboardParams(r.URL.Query())
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	iv, err := s.dashboard.Investor(ctx, p.Name)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	NewResponse().JSON(toInvestorDTO(iv)).Write(w)
}

func (s *Server) handleAPIEntities(w http.ResponseWriter, r *http.Request) {
	p := ParseDashboardParams(r.URL.Query())
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	names, err := s.dashboard.Entities(ctx, p.Mode)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	NewResponse().JSON(entitiesDTO{Mode: p.Mode, Names: names}).Write(w)
}

// apiError maps service errors onto JSON error responses.
func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, analysis.ErrNoData):
		NoDataJSON().Write(w)
	case errors.Is(err, dataset.ErrNotLoaded):
		ErrorJSON(http.StatusServiceUnavailable, "dataset not loaded").Write(w)
	case errors.Is(err, context.DeadlineExceeded):
		ErrorJSON(http.StatusGatewayTimeout, "timeout").Write(w)
	default:
		s.views.LogError(r.Context(), "API request failed", err, applog.OpRender,
			applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, ""))
		ErrorJSON(http.StatusInternalServerError, "internal error").Write(w)
	}
}
