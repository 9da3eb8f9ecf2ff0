package config

import (
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ranking.TopN != 10 {
		t.Errorf("expected top_n 10, got %d", cfg.Ranking.TopN)
	}
	if cfg.Ranking.MaxCategoryShare != 0.4 {
		t.Errorf("expected max share 0.4, got %g", cfg.Ranking.MaxCategoryShare)
	}
	if cfg.Windows.NewsHours != 48 || cfg.Windows.PaperHours != 168 {
		t.Errorf("unexpected windows: %+v", cfg.Windows)
	}
	if cfg.Summarization.Model != "gemini-1.5-flash" {
		t.Errorf("unexpected model %q", cfg.Summarization.Model)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	yaml := `
ranking:
  top_n: 5
windows:
  news_hours: 24
`
	cfg, err := parse([]byte(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Ranking.TopN != 5 {
		t.Errorf("expected top_n 5, got %d", cfg.Ranking.TopN)
	}
	if cfg.Windows.NewsHours != 24 {
		t.Errorf("expected news_hours 24, got %d", cfg.Windows.NewsHours)
	}
	// Untouched defaults survive.
	if cfg.Windows.PaperHours != 168 {
		t.Errorf("expected paper_hours default 168, got %d", cfg.Windows.PaperHours)
	}
}

func TestParseRejectsInvalidTopN(t *testing.T) {
	_, err := parse([]byte("ranking:\n  top_n: 0\n"))
	if err == nil {
		t.Fatal("expected error for top_n 0")
	}
	if !strings.Contains(err.Error(), "top_n") {
		t.Errorf("expected top_n in error, got %v", err)
	}
}

func TestParseRejectsInvalidShare(t *testing.T) {
	if _, err := parse([]byte("ranking:\n  max_category_share: 1.5\n")); err == nil {
		t.Error("expected error for share > 1")
	}
	if _, err := parse([]byte("ranking:\n  max_category_share: -0.1\n")); err == nil {
		t.Error("expected error for negative share")
	}
}

func TestParseRejectsNonPositiveWindows(t *testing.T) {
	if _, err := parse([]byte("windows:\n  news_hours: 0\n")); err == nil {
		t.Error("expected error for zero news window")
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := parse([]byte("ranking: [not a map")); err == nil {
		t.Error("expected parse error")
	}
}

func TestEmbeddedDefaultConfigIsValid(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("embedded default config failed to parse: %v", err)
	}
	if len(cfg.Sources.Feeds) == 0 {
		t.Error("expected embedded config to list feeds")
	}
	if !cfg.Sources.Arxiv.Enabled {
		t.Error("expected arxiv enabled in embedded config")
	}
}

func TestGetDataDirPrefersConfigured(t *testing.T) {
	cfg := &Config{Output: Output{DataDir: "/tmp/custom"}}
	if got := cfg.GetDataDir(); got != "/tmp/custom" {
		t.Errorf("expected configured dir, got %q", got)
	}

	cfg = &Config{}
	if got := cfg.GetDataDir(); !strings.Contains(got, "newsagent") {
		t.Errorf("expected default dir to mention newsagent, got %q", got)
	}
}
