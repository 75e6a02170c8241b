// Package config holds the storefront configuration.
package config

import (
	"errors"
	"strings"

	"github.com/abgdnv/freshcart/pkg/config"
	"github.com/abgdnv/freshcart/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer  config.HTTPConfig       `koanf:"server"`
	GRPC        config.GrpcServerConfig `koanf:"grpc"`
	Log         config.LogConfig        `koanf:"log"`
	PProf       config.PProfConfig      `koanf:"pprof"`
	Shutdown    config.ShutdownConfig   `koanf:"shutdown"`
	Nats        config.NATSConfig       `koanf:"nats"`
	Publisher   config.ResilienceConfig `koanf:"publisher"`
	Fulfillment config.SubscriberConfig `koanf:"fulfillment"`
	Telemetry   config.TelemetryConfig  `koanf:"telemetry"`
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GRPC.String())

	nats := c.Nats
	nats.Url = maskURL(nats.Url)
	b.WriteString(nats.String())
	if c.Nats.Enabled {
		b.WriteString(c.Publisher.String())
	}
	b.WriteString(c.Fulfillment.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())

	return b.String()
}

// maskURL hides the credentials of a broker URL.
func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	if i := strings.LastIndex(url, "@"); i >= 0 {
		scheme := ""
		if j := strings.Index(url, "://"); j >= 0 && j < i {
			scheme = url[:j+3]
		}
		return scheme + "****@" + url[i+1:]
	}
	return url
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if c.Nats.Enabled {
		if err := c.Publisher.Validate(); err != nil {
			return err
		}
	}
	if c.Fulfillment.Enabled && !c.Nats.Enabled {
		return errors.New("fulfillment subscriber requires nats.enabled")
	}
	if err := c.Fulfillment.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}
