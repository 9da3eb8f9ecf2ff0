// Package server serves rendered digests over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"

	"github.com/VamsiPutheti12/News-Agent/internal/store"
)

var md = goldmark.New()

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: Georgia, serif; line-height: 1.6; color: #222; }
h1 { border-bottom: 2px solid #222; padding-bottom: 0.3rem; }
h2 { margin-top: 2rem; }
a { color: #0645ad; }
.meta { color: #666; font-size: 0.9rem; }
hr { border: none; border-top: 1px solid #ccc; margin: 2rem 0; }
</style>
</head>
<body>
{{.Body}}
{{if .Cohorts}}
<hr>
<p class="meta">Past weeks:
{{range .Cohorts}}<a href="/digest/{{.}}">{{.}}</a> {{end}}
</p>
{{end}}
</body>
</html>`

type pageData struct {
	Title   string
	Body    template.HTML
	Cohorts []string
}

// Server renders stored digests as HTML pages.
type Server struct {
	db   *store.DB
	page *template.Template
	mux  *http.ServeMux
}

// New creates a new Server.
func New(db *store.DB) (*Server, error) {
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	s := &Server{db: db, page: page, mux: http.NewServeMux()}
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/digest/", s.handleDigest)
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	d, err := s.db.GetLatestDigest()
	if errors.Is(err, store.ErrNoDigest) {
		s.render(w, "AI Digest", "# AI Digest\n\nNo digests yet. Run `newsagent run` first.")
		return
	}
	if err != nil {
		log.WithError(err).Error("Loading latest digest")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.render(w, "AI Digest — "+d.CohortKey, d.Markdown)
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/digest/")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	d, err := s.db.GetDigest(key)
	if errors.Is(err, store.ErrNoDigest) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.WithError(err).Error("Loading digest")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.render(w, "AI Digest — "+d.CohortKey, d.Markdown)
}

func (s *Server) render(w http.ResponseWriter, title, markdown string) {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		log.WithError(err).Error("Rendering markdown")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	cohorts := s.cohortKeys()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, pageData{
		Title:   title,
		Body:    template.HTML(body.String()),
		Cohorts: cohorts,
	}); err != nil {
		log.WithError(err).Error("Executing page template")
	}
}

func (s *Server) cohortKeys() []string {
	counts, err := s.db.CountByCohort()
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}
