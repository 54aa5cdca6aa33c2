package domain

// Source tags which tier of the pipeline produced a result.
type Source string

const (
	SourcePrimaryCMS Source = "primary-cms"
	SourceMirrorCMS  Source = "mirror-cms"
	SourceStatic     Source = "static"
	SourceFallback   Source = "fallback"
	SourceMockError  Source = "mock-error"
	SourceSynthetic  Source = "synthetic"
)

// SourceKind is the payload shape a raw record carries.
type SourceKind string

const (
	KindCMS      SourceKind = "cms"
	KindStatic   SourceKind = "static"
	KindFallback SourceKind = "fallback"
)
