package rabbitmq_common

import (
	"fmt"
	"net/url"
)

// Config holds the broker settings shared by every consumer.
type Config struct {
	URL string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid rabbitmq url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return fmt.Errorf("invalid rabbitmq url scheme %q", u.Scheme)
	}
	return nil
}
