package mpchttp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samlap/samlap-web/internal/backend"
	"github.com/samlap/samlap-web/internal/mpc"
	"github.com/samlap/samlap-web/internal/mpc/export"
	"github.com/samlap/samlap-web/internal/mpc/ui"
	"github.com/samlap/samlap-web/internal/platform/httpx"
	"github.com/samlap/samlap-web/internal/shared"
	"github.com/samlap/samlap-web/internal/view"
	"github.com/samlap/samlap-web/report"
)

const (
	msgInvalidYear   = "Please select a valid year."
	msgInvalidMember = "Please select a committee member."
	msgPDFDisabled   = "PDF export is not available right now."
)

// Service defines the committee data contract used by the handler.
type Service interface {
	Decisions(ctx context.Context) ([]mpc.Decision, error)
	Voting(ctx context.Context) (mpc.VotingData, error)
	WordOverview(ctx context.Context) (mpc.WordOverview, error)
	WordYear(ctx context.Context, year int) (mpc.WordYear, error)
	DiscussionOverview(ctx context.Context) (mpc.DiscussionOverview, error)
	Correlation(ctx context.Context, year int, memberType mpc.MemberType) ([]mpc.CorrelationPoint, error)
	MemberAnalysis(ctx context.Context, year int, member string) ([]mpc.MemberAnalysis, error)
}

// PDFService renders the decisions table to PDF bytes.
type PDFService interface {
	RenderDecisions(ctx context.Context, payload export.DecisionsPayload) ([]byte, error)
}

// Handler serves the committee analytics pages and their panel fragments.
type Handler struct {
	logger    *slog.Logger
	service   Service
	templates *view.Engine
	charts    ui.ChartRenderer
	pdf       PDFService
	committee func() (mpc.Committee, error)
	csvPool   sync.Pool
	now       func() time.Time
}

// NewHandler constructs the committee HTTP handler.
func NewHandler(logger *slog.Logger, service Service, templates *view.Engine, charts ui.ChartRenderer, pdf PDFService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		charts:    charts,
		pdf:       pdf,
		committee: mpc.LoadCommittee,
		now:       time.Now,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

type hubCard struct {
	Title       string
	Description string
	Href        string
}

var hubCards = []hubCard{
	{"Formation and Evolution", "How the committee was constituted and how the framework has changed since 2016.", "/formation"},
	{"MPC Decisions", "Every policy decision with voting patterns and dissent scores.", "/mpc-decisions"},
	{"MPC Members", "Profiles of the sitting internal and external members.", "/member"},
	{"Voting Patterns", "Member-level vote distributions and dissent over time.", "/mpc-voting"},
	{"Economic Discussions", "How members' economic commentary tracks actual outcomes.", "/economic-discussions"},
	{"Word Cloud Analysis", "The vocabulary of the published minutes, year by year.", "/word-cloud"},
}

func (h *Handler) handleHub(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/mpc.html", "Monetary Policy Committee", hubCards)
}

func (h *Handler) handleMembers(w http.ResponseWriter, r *http.Request) {
	committee, err := h.committee()
	if err != nil {
		h.handleServerError(w, "load committee", err)
		return
	}
	h.render(w, r, "pages/mpc-members.html", "MPC Members", committee)
}

func (h *Handler) handleFormation(w http.ResponseWriter, r *http.Request) {
	committee, err := h.committee()
	if err != nil {
		h.handleServerError(w, "load committee", err)
		return
	}
	h.render(w, r, "pages/mpc-formation.html", "MPC Formation", committee)
}

func (h *Handler) handleDecisions(w http.ResponseWriter, r *http.Request) {
	query, state := decisionFilters(r)
	decisions, err := h.service.Decisions(r.Context())
	var vm ui.DecisionsViewModel
	if err != nil {
		h.logUpstream("load decisions", err)
		vm = ui.BuildDecisions(nil, query, state)
		vm.Error = backend.ViewMessage(err)
	} else {
		vm = ui.BuildDecisions(decisions, query, state)
	}
	h.render(w, r, "pages/mpc-decisions.html", "MPC Decisions", vm)
}

type decisionJSON struct {
	ID                int      `json:"id"`
	Date              string   `json:"date"`
	PolicyChange      string   `json:"policy_change"`
	PolicyLabel       string   `json:"policy_label"`
	VotingPattern     string   `json:"voting_pattern"`
	ExplicitDissenter string   `json:"explicit_dissenter"`
	Score             *float64 `json:"implicit_dissent_score"`
	Model             string   `json:"model,omitempty"`
	Unanimous         bool     `json:"unanimous"`
}

type decisionsResponse struct {
	Query   string              `json:"query"`
	Sort    string              `json:"sort"`
	Dir     string              `json:"dir"`
	Total   int                 `json:"total"`
	Summary mpc.DecisionSummary `json:"summary"`
	Rows    []decisionJSON      `json:"rows"`
}

func (h *Handler) handleDecisionsJSON(w http.ResponseWriter, r *http.Request) {
	query, state := decisionFilters(r)
	decisions, err := h.service.Decisions(r.Context())
	if err != nil {
		h.logUpstream("load decisions", err)
		httpx.RespondError(w, err)
		return
	}
	vm := ui.BuildDecisions(decisions, query, state)
	resp := decisionsResponse{
		Query:   query,
		Sort:    string(state.Key),
		Dir:     string(state.Direction),
		Total:   vm.Total,
		Summary: vm.Summary,
		Rows:    make([]decisionJSON, 0, len(vm.Rows)),
	}
	for _, row := range vm.Rows {
		item := decisionJSON{
			ID:                row.ID,
			Date:              row.Date,
			PolicyChange:      string(row.PolicyChange),
			PolicyLabel:       row.PolicyChange.Label(),
			VotingPattern:     row.VotingPattern,
			ExplicitDissenter: row.ExplicitDissenter,
			Model:             row.Score.Model,
			Unanimous:         row.Unanimous(),
		}
		if row.Score.Valid {
			v := row.Score.Value
			item.Score = &v
		}
		resp.Rows = append(resp.Rows, item)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDecisionsCSV(w http.ResponseWriter, r *http.Request) {
	query, state := decisionFilters(r)
	decisions, err := h.service.Decisions(r.Context())
	if err != nil {
		h.logUpstream("load decisions", err)
		http.Error(w, backend.ViewMessage(err), http.StatusBadGateway)
		return
	}
	vm := ui.BuildDecisions(decisions, query, state)

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	name := "mpc-decisions-"
	if r.URL.Query().Get("view") == "summary" {
		name = "mpc-decisions-summary-"
		err = export.WriteSummaryCSV(buf, vm.Summary)
	} else {
		err = export.WriteDecisionsCSV(buf, vm.Rows)
	}
	if err != nil {
		h.handleServerError(w, "write decisions csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+h.now().UTC().Format("2006-01-02")+`.csv"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handleDecisionsPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		http.Error(w, msgPDFDisabled, http.StatusServiceUnavailable)
		return
	}
	query, state := decisionFilters(r)
	decisions, err := h.service.Decisions(r.Context())
	if err != nil {
		h.logUpstream("load decisions", err)
		http.Error(w, backend.ViewMessage(err), http.StatusBadGateway)
		return
	}
	vm := ui.BuildDecisions(decisions, query, state)
	pdf, err := h.pdf.RenderDecisions(r.Context(), export.DecisionsPayload{
		Query:       query,
		Sort:        state,
		Rows:        vm.Rows,
		Summary:     vm.Summary,
		GeneratedAt: h.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, report.ErrDisabled) {
			http.Error(w, msgPDFDisabled, http.StatusServiceUnavailable)
			return
		}
		h.logError("render pdf", err)
		http.Error(w, msgPDFDisabled, http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="mpc-decisions-`+h.now().UTC().Format("2006-01-02")+`.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		h.logError("stream pdf", err)
	}
}

func (h *Handler) handleVoting(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Voting(r.Context())
	if err != nil {
		h.logUpstream("load voting", err)
		h.render(w, r, "pages/mpc-voting.html", "Voting Patterns", ui.VotingViewModel{Error: backend.ViewMessage(err)})
		return
	}
	vm, err := ui.BuildVoting(h.charts, data, r.URL.Query().Get("member"))
	if err != nil {
		h.handleServerError(w, "build voting view", err)
		return
	}
	h.render(w, r, "pages/mpc-voting.html", "Voting Patterns", vm)
}

func (h *Handler) handleWordCloud(w http.ResponseWriter, r *http.Request) {
	var vm ui.WordCloudViewModel
	overview, err := h.service.WordOverview(r.Context())
	if err != nil {
		h.logUpstream("load word overview", err)
		vm.Error = backend.ViewMessage(err)
		h.render(w, r, "pages/word-cloud.html", "Word Cloud Analysis", vm)
		return
	}
	vm.Years = overview.Years
	vm.Statistics = overview.Statistics
	if overview.StatisticsErr != nil {
		h.logUpstream("load word statistics", overview.StatisticsErr)
		vm.StatsUnavailable = true
	}
	if year, ok := mpc.SelectYear(overview.Years, r.URL.Query().Get("year")); ok {
		vm.Selected = year
		vm.Panel = h.wordPanel(r.Context(), year)
	}
	h.render(w, r, "pages/word-cloud.html", "Word Cloud Analysis", vm)
}

// handleWordPanel serves one year's cloud and trend. It issues exactly the
// two reads of WordYear.
func (h *Handler) handleWordPanel(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r.URL.Query().Get("year"))
	if err != nil {
		h.fragment(w, http.StatusBadRequest, "fragments/word-panel.html", ui.WordPanel{Error: msgInvalidYear})
		return
	}
	h.fragment(w, http.StatusOK, "fragments/word-panel.html", h.wordPanel(r.Context(), year))
}

func (h *Handler) wordPanel(ctx context.Context, year int) ui.WordPanel {
	data, err := h.service.WordYear(ctx, year)
	if err != nil {
		h.logUpstream("load word year", err, slog.Int("year", year))
		return ui.WordPanel{Year: year, Error: backend.ViewMessage(err)}
	}
	panel, err := ui.BuildWordPanel(h.charts, year, data)
	if err != nil {
		h.logError("build word panel", err)
		return ui.WordPanel{Year: year, Error: backend.ViewMessage(err)}
	}
	return panel
}

func (h *Handler) handleDiscussions(w http.ResponseWriter, r *http.Request) {
	var vm ui.DiscussionsViewModel
	overview, err := h.service.DiscussionOverview(r.Context())
	if err != nil {
		h.logUpstream("load discussion overview", err)
		vm.Error = backend.ViewMessage(err)
		h.render(w, r, "pages/economic-discussions.html", "Economic Discussions", vm)
		return
	}
	vm.Statistics = overview.Statistics

	q := r.URL.Query()
	cyear, hasYears := mpc.SelectYear(overview.Years, q.Get("cyear"))
	ayear, _ := mpc.SelectYear(overview.Years, q.Get("ayear"))
	ctype := mpc.ParseMemberType(q.Get("ctype"))
	member, hasMember := mpc.SelectDiscussionMember(overview.Members, q.Get("member"))

	vm.Correlation = ui.CorrelationPanel{
		Years: overview.Years, Year: cyear, MemberType: ctype, Types: ui.CorrelationTypes(),
		OtherYear: ayear, OtherMember: member.Name,
	}
	vm.Member = ui.MemberPanel{
		Years: overview.Years, Year: ayear, Members: overview.Members, Member: member.Name,
		OtherYear: cyear, OtherType: ctype,
	}

	// The panels fail independently, so errors stay inside each panel.
	g, ctx := errgroup.WithContext(r.Context())
	if hasYears {
		g.Go(func() error {
			vm.Correlation = h.correlationPanel(ctx, vm.Correlation)
			return nil
		})
	}
	if hasYears && hasMember {
		g.Go(func() error {
			vm.Member = h.memberPanel(ctx, vm.Member)
			return nil
		})
	}
	_ = g.Wait()
	h.render(w, r, "pages/economic-discussions.html", "Economic Discussions", vm)
}

func (h *Handler) handleCorrelationPanel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := parseYear(q.Get("cyear"))
	if err != nil {
		h.fragment(w, http.StatusBadRequest, "fragments/correlation-panel.html", ui.CorrelationPanel{Error: msgInvalidYear})
		return
	}
	panel := ui.CorrelationPanel{Year: year, MemberType: mpc.ParseMemberType(q.Get("ctype")), Types: ui.CorrelationTypes()}
	h.fragment(w, http.StatusOK, "fragments/correlation-panel.html", h.correlationPanel(r.Context(), panel))
}

func (h *Handler) handleMemberPanel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := parseYear(q.Get("ayear"))
	if err != nil {
		h.fragment(w, http.StatusBadRequest, "fragments/member-panel.html", ui.MemberPanel{Error: msgInvalidYear})
		return
	}
	member := strings.TrimSpace(q.Get("member"))
	if member == "" {
		h.fragment(w, http.StatusBadRequest, "fragments/member-panel.html", ui.MemberPanel{Year: year, Error: msgInvalidMember})
		return
	}
	panel := ui.MemberPanel{Year: year, Member: member}
	h.fragment(w, http.StatusOK, "fragments/member-panel.html", h.memberPanel(r.Context(), panel))
}

func (h *Handler) correlationPanel(ctx context.Context, panel ui.CorrelationPanel) ui.CorrelationPanel {
	points, err := h.service.Correlation(ctx, panel.Year, panel.MemberType)
	if err != nil {
		h.logUpstream("load correlation", err, slog.Int("year", panel.Year), slog.String("member_type", string(panel.MemberType)))
		panel.Error = backend.ViewMessage(err)
		return panel
	}
	built, err := ui.BuildCorrelation(h.charts, panel, points)
	if err != nil {
		h.logError("build correlation panel", err)
		panel.Error = backend.ViewMessage(err)
		return panel
	}
	return built
}

func (h *Handler) memberPanel(ctx context.Context, panel ui.MemberPanel) ui.MemberPanel {
	rows, err := h.service.MemberAnalysis(ctx, panel.Year, panel.Member)
	if err != nil {
		h.logUpstream("load member analysis", err, slog.Int("year", panel.Year), slog.String("member", panel.Member))
		panel.Error = backend.ViewMessage(err)
		return panel
	}
	return ui.BuildMemberPanel(panel, rows)
}

func decisionFilters(r *http.Request) (string, mpc.SortState) {
	q := r.URL.Query()
	return strings.TrimSpace(q.Get("q")), mpc.ParseSort(q.Get("sort"), q.Get("dir"))
}

func parseYear(raw string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || year < 1900 || year > 9999 {
		return 0, httpx.ErrValidation
	}
	return year, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	var flash *shared.FlashMessage
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		flash = sess.PopFlash()
	}
	if err := h.templates.Render(w, name, view.TemplateData{
		Title:       title,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) fragment(w http.ResponseWriter, status int, name string, data any) {
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	if err := h.templates.RenderFragment(w, name, data); err != nil {
		h.handleServerError(w, "render fragment", err)
	}
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	h.logger.Error(context, slog.Any("error", err))
}

func (h *Handler) logUpstream(context string, err error, attrs ...any) {
	h.logger.Warn(context, append([]any{slog.Any("error", err)}, attrs...)...)
}
