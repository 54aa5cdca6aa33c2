package cache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"anjia-property-service/internal/contextkeys"
)

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `listing:amenities=pool\*|page=1`, escapeGlob("listing:amenities=pool*|page=1"))
	assert.Equal(t, `a\?b\[c\]d\\e`, escapeGlob(`a?b[c]d\e`))
	assert.Equal(t, "property:", escapeGlob("property:"))
}

func TestNewRedisCache_Namespace(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })
	logger := contextkeys.LoggerFromContext(context.Background())

	assert.Equal(t, "anjia:", NewRedisCache(client, "anjia", logger).namespace)
	assert.Equal(t, "anjia:", NewRedisCache(client, "anjia:", logger).namespace)
	assert.Equal(t, "", NewRedisCache(client, "", logger).namespace)
}
