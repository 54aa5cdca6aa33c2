package port

// MetricsPort receives pipeline observations. Implementations must be safe for
// concurrent use.
type MetricsPort interface {
	CacheLookup(kind string, hit bool)
	SourceAttempt(source string, outcome string)
	Resolved(kind string, source string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) CacheLookup(string, bool)     {}
func (NoopMetrics) SourceAttempt(string, string) {}
func (NoopMetrics) Resolved(string, string)      {}
