// Package source defines the ingestion adapters. Each adapter fetches from
// one upstream and emits raw entries; normalization and everything downstream
// is shared.
package source

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

const userAgent = "newsagent/1.0 (content aggregator)"

// Adapter is a single upstream content source. Fetch returns whatever the
// upstream yielded; partial results with a nil error are valid when the
// upstream succeeded but some entries were unusable.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, maxResults int) ([]model.RawEntry, error)
}

// NewHTTPClient builds the shared retrying HTTP client used by all adapters.
// Transient upstream errors get retryMax attempts with backoff before the
// adapter reports failure.
func NewHTTPClient(timeout time.Duration, retryMax int) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = leveledLogger{}
	return rc.StandardClient()
}

// leveledLogger adapts logrus to retryablehttp's LeveledLogger interface so
// retry chatter lands at debug level instead of stdout.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, kv ...interface{}) { log.WithField("http", kv).Error(msg) }
func (leveledLogger) Info(msg string, kv ...interface{})  { log.WithField("http", kv).Debug(msg) }
func (leveledLogger) Debug(msg string, kv ...interface{}) { log.WithField("http", kv).Debug(msg) }
func (leveledLogger) Warn(msg string, kv ...interface{})  { log.WithField("http", kv).Warn(msg) }
