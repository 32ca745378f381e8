// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/classvote/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// ResultsRefresh is how often the results page reloads itself.
const ResultsRefresh = 10 * time.Second

// Page is the data every page shares.
type Page struct {
	Title  string
	Active string

	// RefreshSeconds, when set, makes the browser reload the page
	RefreshSeconds int
}

// SimulateSeconds is how long the simulated recording lasts on browsers
// without speech recognition.
const SimulateSeconds = 3

// VotePage is the data for the vote form.
type VotePage struct {
	Page
	Classes      []models.ClassInfo
	VoiceEnabled bool

	// SampleTranscripts stand in for speech on browsers without the
	// Web Speech API
	SampleTranscripts []string
	SimulateSeconds   int
}

// ResultRow is one class on the results page.
type ResultRow struct {
	models.ClassTally
	Share  float64
	Leader bool
}

// ResultsPage is the data for the live results page.
type ResultsPage struct {
	Page
	Rows       []ResultRow
	Total      int
	UpdatedAt  time.Time
	LastVoteAt time.Time
}

type Templates struct {
	templates *template.Template
}

// Load parses the embedded page templates.
func Load() (*Templates, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
		"ago": func(t time.Time) string {
			if t.IsZero() {
				return "暂无"
			}
			return humanize.Time(t)
		},
		"clock":   func(t time.Time) string { return t.Local().Format("15:04:05") },
		"percent": func(f float64) string { return fmt.Sprintf("%.1f", f*100) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Templates{templates: t}, nil
}

// MustLoad is Load for the embedded templates, which are fixed at build
// time; it panics on a parse error.
func MustLoad() *Templates {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes the named template into a buffer first so a failing
// template never produces a half-written page.
func (t *Templates) Render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := t.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
