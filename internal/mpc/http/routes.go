package mpchttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers committee analytics endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/mpc", h.handleHub)
	r.Get("/member", h.handleMembers)
	r.Get("/formation", h.handleFormation)

	r.Get("/mpc-decisions", h.handleDecisions)
	r.Get("/mpc-decisions.json", h.handleDecisionsJSON)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/mpc-decisions/export.csv", h.handleDecisionsCSV)
		gr.Get("/mpc-decisions/pdf", h.handleDecisionsPDF)
	})

	r.Get("/mpc-voting", h.handleVoting)

	r.Get("/word-cloud", h.handleWordCloud)
	r.Get("/word-cloud/panel", h.handleWordPanel)

	r.Get("/economic-discussions", h.handleDiscussions)
	r.Get("/economic-discussions/correlation", h.handleCorrelationPanel)
	r.Get("/economic-discussions/member-analysis", h.handleMemberPanel)
}

// rateLimitKey buckets exports per client IP.
func rateLimitKey(r *http.Request) (string, error) {
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
