// Package fluentlogger builds the Fluent Bit client shared by the log adapters.
package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config describes the Fluent Bit forward input.
type Config struct {
	Host string
	Port int
	// TagPrefix is prepended to every tag, usually the service name.
	TagPrefix string
	// Async buffers records and sends them from a background goroutine.
	Async   bool
	Timeout time.Duration
}

// NewClient creates the client. In async mode the connection is made by the send
// loop, so a bad address is reported there rather than here.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}

	client, err := fluent.New(fluent.Config{
		FluentHost:         cfg.Host,
		FluentPort:         cfg.Port,
		TagPrefix:          cfg.TagPrefix,
		Timeout:            cfg.Timeout,
		Async:              cfg.Async,
		SubSecondPrecision: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent client: %w", err)
	}
	return client, nil
}
