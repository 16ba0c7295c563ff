// Package http provides http transport for contribution reports
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ghsummary/internal/modkit/httpkit"
	perr "ghsummary/internal/platform/errors"
	"ghsummary/internal/services/contrib/domain"
	svc "ghsummary/internal/services/contrib/service"
	"ghsummary/internal/services/report"
)

// Register mounts report endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s, render: report.New()}

	// fetch, persist, and return a fresh yearly snapshot
	httpkit.PostJSON[domain.AnalyzeInput](r, "/analyze", h.analyze)

	// stored snapshot for one year, computing it when absent
	httpkit.Get(r, "/{username}/{year}", h.yearly)

	// rendered Markdown of the yearly snapshot
	r.Get("/{username}/{year}/markdown", h.yearlyMarkdown)

	// year-over-year comparison across the last three stored years
	r.Get("/{username}/compare", h.compare)

	// aggregate across every year, backfilling missing ones
	httpkit.Get(r, "/{username}/alltime", h.alltime)

	// language histogram for one stored year
	httpkit.Get(r, "/{username}/languages/{year}", h.languages)
}

type handlers struct {
	svc    *svc.Service
	render *report.Renderer
}

func yearParam(r *stdhttp.Request) (int, error) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perr.InvalidArgf("year %q is not a number", raw)
	}
	return year, nil
}

func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	// binding enforced the floor; the current-year ceiling moves, so the
	// service checks it
	if err := h.svc.ValidateYear(in.Year); err != nil {
		return nil, err
	}
	return h.svc.YearlyReport(r.Context(), in.Username, domain.CalendarYear(in.Year))
}

func (h *handlers) yearly(r *stdhttp.Request) (any, error) {
	year, err := yearParam(r)
	if err != nil {
		return nil, err
	}
	return h.svc.CachedReport(r.Context(), chi.URLParam(r, "username"), year)
}

func (h *handlers) yearlyMarkdown(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	year, err := yearParam(r)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	snap, err := h.svc.CachedReport(r.Context(), chi.URLParam(r, "username"), year)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	writeMarkdown(w, h.render.Yearly(snap))
}

func (h *handlers) compare(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	username := chi.URLParam(r, "username")
	snaps, err := h.svc.YearComparison(r.Context(), username)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	writeMarkdown(w, h.render.Comparison(username, snaps))
}

func (h *handlers) alltime(r *stdhttp.Request) (any, error) {
	return h.svc.AllTimeReport(r.Context(), chi.URLParam(r, "username"))
}

func (h *handlers) languages(r *stdhttp.Request) (any, error) {
	year, err := yearParam(r)
	if err != nil {
		return nil, err
	}
	username := chi.URLParam(r, "username")
	snap, err := h.svc.StoredReport(r.Context(), username, year)
	if err != nil {
		return nil, err
	}
	return domain.LanguagesView{
		Username:  username,
		Year:      snap.Year,
		Languages: snap.Languages,
	}, nil
}

func writeMarkdown(w stdhttp.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write([]byte(body))
}
