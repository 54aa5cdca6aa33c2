// Package wpfetcher reads listings from the WordPress REST API of the agency CMS.
package wpfetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"anjia-property-service/internal/contextkeys"
	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/port"
	"anjia-property-service/pkg/resilient"
)

const defaultUserAgent = "anjia-property-service/1.0"

// Config describes one CMS host.
type Config struct {
	Name    domain.Source
	BaseURL string
	// ListingPolicy and ItemPolicy bound listing and single-item calls.
	ListingPolicy resilient.Policy
	ItemPolicy    resilient.Policy
	UserAgent     string
}

// WPFetcherAdapter implements port.PropertySourcePort for one CMS host. The primary
// and mirror hosts are two instances of it.
type WPFetcherAdapter struct {
	name    domain.Source
	baseURL string

	// one parent collector per call kind: clones share the parent's HTTP client,
	// whose timeout is the attempt timeout
	itemCollector    *colly.Collector
	listingCollector *colly.Collector

	itemPolicy    resilient.Policy
	listingPolicy resilient.Policy
}

func NewWPFetcherAdapter(cfg Config) (*WPFetcherAdapter, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("WPFetcherAdapter(%s): invalid base URL %q", cfg.Name, cfg.BaseURL)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	newCollector := func(timeout time.Duration) *colly.Collector {
		c := colly.NewCollector(
			colly.AllowedDomains(base.Hostname()),
			colly.AllowURLRevisit(),
			colly.UserAgent(cfg.UserAgent),
		)
		if timeout > 0 {
			c.SetRequestTimeout(timeout)
		}
		return c
	}

	return &WPFetcherAdapter{
		name:             cfg.Name,
		baseURL:          base.String(),
		itemCollector:    newCollector(cfg.ItemPolicy.Timeout),
		listingCollector: newCollector(cfg.ListingPolicy.Timeout),
		itemPolicy:       cfg.ItemPolicy,
		listingPolicy:    cfg.ListingPolicy,
	}, nil
}

func (a *WPFetcherAdapter) Name() domain.Source {
	return a.name
}

// BaseURL is the API root the adapter talks to.
func (a *WPFetcherAdapter) BaseURL() string {
	return a.baseURL
}

type response struct {
	status int
	body   []byte
	header http.Header
	err    error
}

// get performs a single GET through a clone of parent. It returns as soon as ctx is
// done; the abandoned request ends at the collector's own timeout.
func (a *WPFetcherAdapter) get(ctx context.Context, parent *colly.Collector, rawURL string) response {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "WPFetcherAdapter",
		"source":    string(a.name),
	})

	collector := parent.Clone()
	// every status reaches OnResponse; OnError only sees transport failures
	collector.ParseHTTPErrorResponse = true
	var res response

	collector.OnRequest(func(r *colly.Request) {
		logger.Debug("Making request to CMS", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		res.status = r.StatusCode
		res.body = r.Body
		if r.Headers != nil {
			res.header = *r.Headers
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		res.err = err
		if r != nil {
			res.status = r.StatusCode
			res.body = r.Body
		}
	})

	hdr := http.Header{}
	hdr.Set("Accept", "application/json")
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		hdr.Set("X-Trace-ID", traceID)
	}

	done := make(chan response, 1)
	go func() {
		if err := collector.Request(http.MethodGet, rawURL, nil, colly.NewContext(), hdr); err != nil && res.err == nil {
			res.err = err
		}
		done <- res
	}()

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		return response{err: ctx.Err()}
	}
}

// classify turns a transport outcome into a domain error by status. Any 2xx is a
// success; NotFound and other client errors are permanent; everything else may be retried.
func (a *WPFetcherAdapter) classify(res response, id string) error {
	switch {
	case res.err == nil && res.status >= 200 && res.status < 300:
		return nil
	case res.status == http.StatusNotFound || res.status == http.StatusGone:
		return resilient.Permanent(domain.NewNotFoundError(a.name, id))
	case res.status >= 400 && res.status < 500 && res.status != http.StatusTooManyRequests:
		return resilient.Permanent(domain.NewNetworkError(a.name, statusError(res)))
	case res.status != 0:
		return domain.NewNetworkError(a.name, statusError(res))
	default:
		return domain.NewNetworkError(a.name, res.err)
	}
}

func statusError(res response) error {
	if res.err == nil {
		return fmt.Errorf("unexpected status %d", res.status)
	}
	return fmt.Errorf("status %d: %w", res.status, res.err)
}

// notify logs a failed attempt that will be retried.
func (a *WPFetcherAdapter) notify(ctx context.Context, op string, fields port.Fields) resilient.NotifyFunc {
	logger := contextkeys.LoggerFromContext(ctx)
	return func(attempt int, err error, wait time.Duration) {
		f := port.Fields{
			"source":     string(a.name),
			"operation":  op,
			"attempt":    attempt,
			"retry_in":   wait.String(),
			"error_kind": domain.ErrorKind(err),
		}
		for k, v := range fields {
			f[k] = v
		}
		logger.Warn("CMS request failed, retrying", f)
	}
}
