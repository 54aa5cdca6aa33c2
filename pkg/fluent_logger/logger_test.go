package fluentlogger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fluentlogger "anjia-property-service/pkg/fluent_logger"
)

func TestNewClient_RequiresTagPrefix(t *testing.T) {
	_, err := fluentlogger.NewClient(fluentlogger.Config{Host: "127.0.0.1", Port: 24224})
	assert.Error(t, err)
}

func TestNewClient_AsyncDoesNotDial(t *testing.T) {
	client, err := fluentlogger.NewClient(fluentlogger.Config{
		Host:      "127.0.0.1",
		Port:      1,
		TagPrefix: "anjia-property-service",
		Async:     true,
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	_ = client.Close()
}
