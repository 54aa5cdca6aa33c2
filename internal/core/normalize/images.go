package normalize

import (
	"net/url"
	"strings"

	"anjia-property-service/internal/core/domain"
)

// DefaultPlaceholder is served by the front end when a listing has no image.
const DefaultPlaceholder = "/images/property-placeholder.jpg"

// galleryFields are every field name gallery plugins have used for listing photos.
var galleryFields = []string{"images", "property_images", "gallery", "image_gallery", "property_gallery"}

// scalarImageFields hold a single featured image URL.
var scalarImageFields = []string{"featured_image", "featured_media_url"}

// imageSizes are tried in order inside size-variant objects.
var imageSizes = []string{"full", "large", "medium_large", "medium"}

// ImageResolver collects listing photos from every place a record may keep them.
type ImageResolver struct {
	origin      string
	placeholder string
}

// NewImageResolver builds a resolver that rewrites root-relative paths against the
// origin of cmsBaseURL.
func NewImageResolver(cmsBaseURL, placeholder string) *ImageResolver {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	origin := ""
	if u, err := url.Parse(cmsBaseURL); err == nil && u.Scheme != "" && u.Host != "" {
		origin = u.Scheme + "://" + u.Host
	}
	return &ImageResolver{origin: origin, placeholder: placeholder}
}

// Placeholder returns the path used when no image exists.
func (r *ImageResolver) Placeholder() string {
	return r.placeholder
}

// Resolve returns deduplicated absolute image URLs followed by the placeholder.
// The result is never empty.
func (r *ImageResolver) Resolve(raw domain.RawRecord) []string {
	var candidates []string

	switch rec := raw.(type) {
	case domain.CMSRecord:
		candidates = r.fromCMS(newCMSView(rec))
	case domain.StaticRecord:
		candidates = rec.Images
	case *domain.StaticRecord:
		if rec != nil {
			candidates = rec.Images
		}
	case domain.FallbackRecord:
		candidates = []string{rec.Image}
	case *domain.FallbackRecord:
		if rec != nil {
			candidates = []string{rec.Image}
		}
	}

	return r.finish(candidates)
}

func (r *ImageResolver) fromCMS(v cmsView) []string {
	var out []string

	// (a) embedded featured media
	if embedded, ok := v.top["_embedded"].(map[string]any); ok {
		out = append(out, collect(embedded["wp:featuredmedia"])...)
	}

	// (b) gallery fields, custom fields first
	for _, name := range galleryFields {
		out = append(out, collect(custom(name)(v))...)
	}
	for _, name := range galleryFields[1:] {
		out = append(out, collect(top(name)(v))...)
	}

	// (c) plain top-level images array
	out = append(out, collect(top("images")(v))...)

	// (d) single featured image fields
	for _, name := range scalarImageFields {
		out = append(out, collectSingle(custom(name)(v))...)
		out = append(out, collectSingle(top(name)(v))...)
	}
	return out
}

// collect extracts URLs from a string, a list, or an attachment object.
func collect(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return splitURLList(t)
	case []string:
		return t
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, collect(item)...)
		}
		return out
	case map[string]any:
		if u := urlFromObject(t); u != "" {
			return []string{u}
		}
	}
	// bare attachment ids carry no URL
	return nil
}

// collectSingle treats a string as one URL. Featured image fields never hold lists.
func collectSingle(v any) []string {
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return []string{s}
		}
		return nil
	}
	return collect(v)
}

// splitURLList splits a comma separated gallery string. CDN URLs may carry commas
// themselves (?resize=1024,768, w_400,h_300), so the string is split only when
// every part looks like a URL or a path.
func splitURLList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	for _, part := range parts {
		if !looksLikeURL(part) {
			return []string{s}
		}
	}
	return parts
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// urlFromObject tries the attachment shapes WordPress and gallery plugins produce.
func urlFromObject(m map[string]any) string {
	for _, key := range []string{"url", "source_url", "link"} {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if guid, ok := m["guid"].(map[string]any); ok {
		if s := stringify(guid["rendered"]); s != "" {
			return s
		}
	}
	if s := fromSizes(m["sizes"]); s != "" {
		return s
	}
	if details, ok := m["media_details"].(map[string]any); ok {
		if s := fromSizes(details["sizes"]); s != "" {
			return s
		}
	}
	return ""
}

func fromSizes(v any) string {
	sizes, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	for _, size := range imageSizes {
		switch s := sizes[size].(type) {
		case string:
			if strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		case map[string]any:
			for _, key := range []string{"source_url", "url"} {
				if u, ok := s[key].(string); ok && strings.TrimSpace(u) != "" {
					return strings.TrimSpace(u)
				}
			}
		}
	}
	return ""
}

func (r *ImageResolver) finish(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates)+1)

	for _, c := range candidates {
		u := r.absolute(c)
		if u == "" || u == r.placeholder {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	// the placeholder always closes the list so the client has something to fall back to
	return append(out, r.placeholder)
}

func (r *ImageResolver) absolute(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "", isDigits(s):
		return ""
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return s
	case strings.HasPrefix(s, "//"):
		return "https:" + s
	case s == r.placeholder:
		return s
	case strings.HasPrefix(s, "/"):
		return r.origin + s
	default:
		return r.origin + "/" + s
	}
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
