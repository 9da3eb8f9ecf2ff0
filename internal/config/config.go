package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources       Sources       `yaml:"sources"`
	Windows       Windows       `yaml:"windows"`
	Ranking       Ranking       `yaml:"ranking"`
	Summarization Summarization `yaml:"summarization"`
	Fetch         Fetch         `yaml:"fetch"`
	Output        Output        `yaml:"output"`
	Server        Server        `yaml:"server"`
	Logging       Logging       `yaml:"logging"`
}

type Sources struct {
	Feeds []Feed `yaml:"feeds"`
	Arxiv Arxiv  `yaml:"arxiv"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type Arxiv struct {
	Enabled    bool     `yaml:"enabled"`
	Endpoint   string   `yaml:"endpoint"`
	Categories []string `yaml:"categories"`
	MaxResults int      `yaml:"max_results"`
}

type Windows struct {
	NewsHours  int `yaml:"news_hours"`
	PaperHours int `yaml:"paper_hours"`
}

type Ranking struct {
	TopN             int     `yaml:"top_n"`
	MaxCategoryShare float64 `yaml:"max_category_share"`
	ImportanceWeight float64 `yaml:"importance_weight"`
	RecencyWeight    float64 `yaml:"recency_weight"`
	DiversityWeight  float64 `yaml:"diversity_weight"`
}

type Summarization struct {
	Enabled        bool   `yaml:"enabled"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Concurrency    int    `yaml:"concurrency"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

type Fetch struct {
	MaxPerSource   int  `yaml:"max_per_source"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
	RetryMax       int  `yaml:"retry_max"`
	FetchBody      bool `yaml:"fetch_body"`
	RunDeadlineMin int  `yaml:"run_deadline_minutes"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for newsagent.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newsagent")
}

// DataDir returns the XDG data directory for newsagent.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "newsagent")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newsagent/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'newsagent init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults first so a sparse
// file only overrides what it names.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Sources: Sources{
			Arxiv: Arxiv{
				Enabled:    true,
				Endpoint:   "http://export.arxiv.org/api/query",
				Categories: []string{"cs.AI", "cs.LG", "cs.CV", "cs.CL", "cs.RO", "cs.NE", "stat.ML"},
				MaxResults: 50,
			},
		},
		Windows: Windows{NewsHours: 48, PaperHours: 168},
		Ranking: Ranking{
			TopN:             10,
			MaxCategoryShare: 0.4,
			ImportanceWeight: 0.6,
			RecencyWeight:    0.3,
			DiversityWeight:  0.1,
		},
		Summarization: Summarization{
			Enabled:        true,
			Model:          "gemini-1.5-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			Concurrency:    3,
			TimeoutSeconds: 30,
			MaxRetries:     2,
		},
		Fetch: Fetch{
			MaxPerSource:   50,
			TimeoutSeconds: 15,
			RetryMax:       2,
			FetchBody:      true,
			RunDeadlineMin: 10,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with. Invalid
// configuration is the one failure class that aborts a run.
func (c *Config) Validate() error {
	if c.Ranking.TopN <= 0 {
		return fmt.Errorf("ranking.top_n must be positive, got %d", c.Ranking.TopN)
	}
	if c.Ranking.MaxCategoryShare <= 0 || c.Ranking.MaxCategoryShare > 1 {
		return fmt.Errorf("ranking.max_category_share must be in (0,1], got %g", c.Ranking.MaxCategoryShare)
	}
	if c.Ranking.ImportanceWeight < 0 || c.Ranking.RecencyWeight < 0 || c.Ranking.DiversityWeight < 0 {
		return fmt.Errorf("ranking weights must be non-negative")
	}
	if c.Ranking.ImportanceWeight+c.Ranking.RecencyWeight+c.Ranking.DiversityWeight == 0 {
		return fmt.Errorf("at least one ranking weight must be positive")
	}
	if c.Windows.NewsHours <= 0 || c.Windows.PaperHours <= 0 {
		return fmt.Errorf("recency windows must be positive")
	}
	if c.Sources.Arxiv.Enabled && c.Sources.Arxiv.MaxResults <= 0 {
		return fmt.Errorf("sources.arxiv.max_results must be positive when enabled")
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// NewsWindow returns the news recency window as a duration.
func (c *Config) NewsWindow() time.Duration {
	return time.Duration(c.Windows.NewsHours) * time.Hour
}

// PaperWindow returns the paper recency window as a duration.
func (c *Config) PaperWindow() time.Duration {
	return time.Duration(c.Windows.PaperHours) * time.Hour
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
