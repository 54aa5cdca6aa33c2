package constants

// CMS change events.
const (
	CMSEventsExchange         = "cms_events"
	CMSEventsExchangeType     = "topic"
	PropertyChangedRoutingKey = "property.changed"
	CacheInvalidationQueue    = "property_service.cache_invalidation"
	CacheInvalidationTag      = "property-service-cache-invalidator"
)

// TraceIDHeader carries the trace id over HTTP. AMQP messages use the lower-case form.
const (
	TraceIDHeader     = "X-Trace-ID"
	AMQPTraceIDHeader = "x-trace-id"
)
