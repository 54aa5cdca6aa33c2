package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anjia-property-service/internal/configs"
)

func cmsConfig() configs.CMSConfig {
	return configs.CMSConfig{
		PrimaryURL:     "https://cms.anjia.test/wp-json",
		MirrorURL:      "http://cms.anjia.test/wp-json",
		ListingTimeout: 5 * time.Second,
		ItemTimeout:    15 * time.Second,
		RetryMax:       1,
		RetryBaseDelay: 500 * time.Millisecond,
	}
}

func TestBuildSourceChains_Order(t *testing.T) {
	chains, err := buildSourceChains(cmsConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"primary-cms", "static", "fallback"}, sourceNames(chains.item))
	assert.Equal(t, []string{"primary-cms", "mirror-cms", "static"}, sourceNames(chains.listing))
}

func TestBuildSourceChains_WithoutMirror(t *testing.T) {
	cfg := cmsConfig()
	cfg.MirrorURL = ""

	chains, err := buildSourceChains(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"primary-cms", "static"}, sourceNames(chains.listing))
}

func TestBuildSourceChains_InvalidPrimary(t *testing.T) {
	cfg := cmsConfig()
	cfg.PrimaryURL = "not a url"

	_, err := buildSourceChains(cfg)
	assert.Error(t, err)
}
