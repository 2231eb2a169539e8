package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/melkeydev/bookdash/dashboard"
	"github.com/spf13/cast"
	"github.com/starfederation/datastar-go/datastar"
)

// Signals is the client state datastar sends with every request. Radio
// inputs may report the option as a string.
type Signals struct {
	Analysis string `json:"analysis"`
	Option   any    `json:"option"`
	Input    string `json:"input"`
}

type Handlers struct {
	controller *dashboard.Controller
	title      string
	logger     *slog.Logger
}

func NewHandlers(controller *dashboard.Controller, title string, logger *slog.Logger) *Handlers {
	return &Handlers{
		controller: controller,
		title:      title,
		logger:     logger,
	}
}

type paneData struct {
	Analysis  dashboard.Analysis
	Selection dashboard.Selection
	Table     string
	Blocks    []template.HTML
}

type pageData struct {
	Title     string
	Analyses  []dashboard.Analysis
	Selection dashboard.Selection
	Signals   string
	Pane      template.HTML
}

// Page renders the whole dashboard. The selection comes from the query
// string so the page also works without JavaScript.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id := dashboard.Overview
	if v := q.Get("analysis"); v != "" {
		parsed, err := dashboard.ParseID(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		id = parsed
	}

	sel := dashboard.Selection{
		Analysis: id,
		Option:   cast.ToInt(q.Get("option")),
		Input:    q.Get("input"),
	}

	var pane bytes.Buffer
	if err := h.pane(r.Context(), sel).Render(r.Context(), &pane); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	signals, err := json.Marshal(Signals{Analysis: string(sel.Analysis), Option: sel.Option, Input: sel.Input})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:     h.title,
		Analyses:  dashboard.Catalog(),
		Selection: sel,
		Signals:   string(signals),
		Pane:      template.HTML(pane.String()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templ.FromGoHTML(pageTmpl, data).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "error", err)
	}
}

// AnalysisSSE runs the analysis named in the URL and morphs the result pane.
func (h *Handlers) AnalysisSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals Signals
	readErr := datastar.ReadSignals(r, &signals)

	sse := datastar.NewSSE(w, r)

	if readErr != nil {
		_ = sse.PatchElementTempl(errorPane("failed to read signals: " + readErr.Error()))
		return
	}

	id, err := dashboard.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		_ = sse.PatchElementTempl(errorPane(err.Error()))
		return
	}

	sel := dashboard.Selection{
		Analysis: id,
		Option:   cast.ToInt(signals.Option),
		Input:    signals.Input,
	}
	// A stale option from another analysis falls back to the first choice.
	if signals.Analysis != "" && signals.Analysis != string(id) {
		sel.Option = 0
		sel.Input = ""
	}

	if err := sse.PatchElementTempl(h.pane(r.Context(), sel)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// pane runs the analysis and wraps the result pane as a component. Invalid
// selections become an error notice inside the pane.
func (h *Handlers) pane(ctx context.Context, sel dashboard.Selection) templ.Component {
	analysis, _ := dashboard.Lookup(sel.Analysis)
	renderer := NewHTMLRenderer()

	outcome, err := h.controller.Run(ctx, sel, renderer)
	if err != nil {
		h.logger.Warn("analysis failed", "analysis", sel.Analysis, "error", err)
		_ = renderer.Error(err)
	} else {
		h.logger.Debug("analysis finished", "analysis", sel.Analysis, "outcome", outcome.Kind)
	}

	return templ.FromGoHTML(paneTmpl, paneData{
		Analysis:  analysis,
		Selection: sel,
		Table:     h.controller.Table(),
		Blocks:    renderer.Blocks(),
	})
}

func errorPane(msg string) templ.Component {
	renderer := NewHTMLRenderer()
	_ = renderer.Error(errors.New(msg))
	return templ.FromGoHTML(paneTmpl, paneData{Blocks: renderer.Blocks()})
}
