package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/normalize"
)

const placeholder = normalize.DefaultPlaceholder

func resolver() *normalize.ImageResolver {
	return normalize.NewImageResolver("https://cms.anjia.test/wp-json", placeholder)
}

func TestResolveImages_NoImagesYieldsPlaceholderOnly(t *testing.T) {
	for _, raw := range []domain.RawRecord{nil, domain.CMSRecord{}, domain.StaticRecord{}, domain.FallbackRecord{}} {
		assert.Equal(t, []string{placeholder}, resolver().Resolve(raw))
	}
}

func TestResolveImages_CMSCandidateOrder(t *testing.T) {
	raw := domain.CMSRecord{
		"_embedded": map[string]any{
			"wp:featuredmedia": []any{
				map[string]any{"source_url": "https://cdn.test/featured.jpg"},
			},
		},
		"acf": map[string]any{
			"property_images": []any{
				map[string]any{"url": "/wp-content/uploads/one.jpg"},
				map[string]any{"sizes": map[string]any{"large": "//cdn.test/two.jpg"}},
				float64(1234),
				"1234",
			},
		},
		"gallery": []any{
			map[string]any{"media_details": map[string]any{
				"sizes": map[string]any{"medium": map[string]any{"source_url": "uploads/three.jpg"}},
			}},
		},
		"images":         []any{"https://cdn.test/featured.jpg", "https://cdn.test/four.jpg"},
		"featured_image": "https://cdn.test/five.jpg",
	}

	got := resolver().Resolve(raw)

	assert.Equal(t, []string{
		"https://cdn.test/featured.jpg",
		"https://cms.anjia.test/wp-content/uploads/one.jpg",
		"https://cdn.test/two.jpg",
		"https://cms.anjia.test/uploads/three.jpg",
		"https://cdn.test/four.jpg",
		"https://cdn.test/five.jpg",
		placeholder,
	}, got)
}

func TestResolveImages_PlaceholderIsLastAndUnique(t *testing.T) {
	raw := domain.StaticRecord{Images: []string{placeholder, "https://cdn.test/a.jpg", placeholder, "https://cdn.test/a.jpg"}}

	got := resolver().Resolve(raw)

	assert.Equal(t, []string{"https://cdn.test/a.jpg", placeholder}, got)
}

func TestResolveImages_GuidAndLink(t *testing.T) {
	raw := domain.CMSRecord{
		"acf": map[string]any{
			"gallery": []any{
				map[string]any{"guid": map[string]any{"rendered": "https://cdn.test/guid.jpg"}},
				map[string]any{"link": "https://cdn.test/link.jpg"},
			},
		},
	}

	assert.Equal(t, []string{"https://cdn.test/guid.jpg", "https://cdn.test/link.jpg", placeholder}, resolver().Resolve(raw))
}

func TestResolveImages_CommaSeparatedString(t *testing.T) {
	raw := domain.CMSRecord{"acf": map[string]any{"image_gallery": "/a.jpg, /b.jpg"}}

	assert.Equal(t, []string{
		"https://cms.anjia.test/a.jpg",
		"https://cms.anjia.test/b.jpg",
		placeholder,
	}, resolver().Resolve(raw))
}

func TestResolveImages_FeaturedURLWithCommasStaysWhole(t *testing.T) {
	photon := "https://i0.wp.com/cms.anjia.co.ug/wp-content/uploads/a.jpg?resize=1024,768&ssl=1"
	raw := domain.CMSRecord{"featured_media_url": photon}

	assert.Equal(t, []string{photon, placeholder}, resolver().Resolve(raw))
}

func TestResolveImages_GalleryStringWithCDNCommasStaysWhole(t *testing.T) {
	cloudinary := "https://res.cloudinary.com/anjia/image/upload/w_400,h_300/kololo.jpg"
	raw := domain.CMSRecord{"acf": map[string]any{"image_gallery": cloudinary}}

	assert.Equal(t, []string{cloudinary, placeholder}, resolver().Resolve(raw))
}

func TestResolveImages_MixedAbsoluteAndRootRelativeList(t *testing.T) {
	raw := domain.CMSRecord{"acf": map[string]any{"gallery": "https://cdn.anjia.test/a.jpg, /b.jpg"}}

	assert.Equal(t, []string{
		"https://cdn.anjia.test/a.jpg",
		"https://cms.anjia.test/b.jpg",
		placeholder,
	}, resolver().Resolve(raw))
}

func TestNewImageResolver_DefaultPlaceholder(t *testing.T) {
	r := normalize.NewImageResolver("", "")
	assert.Equal(t, normalize.DefaultPlaceholder, r.Placeholder())
}
