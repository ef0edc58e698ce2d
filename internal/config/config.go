// Package config holds the env-driven service configuration.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries every tunable of the service. Values come from the
// environment (see the envconfig tags); a .env file loaded at startup
// can provide them in development.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":5000"`

	// MatchWait bounds how long a seeker may stay parked in the
	// matchmaker before a timeout outcome is returned.
	MatchWait time.Duration `envconfig:"MATCH_WAIT" default:"30s"`

	// StreamKeepalive is the idle interval after which a stream emits a
	// keepalive marker so transports do not drop the connection.
	StreamKeepalive time.Duration `envconfig:"STREAM_KEEPALIVE" default:"30s"`

	// TypingExpiry is how long a typing notification stays visible.
	TypingExpiry time.Duration `envconfig:"TYPING_EXPIRY" default:"3s"`

	// SubscriberBuffer is the per-subscriber outbound channel capacity.
	// A subscriber slower than this misses messages rather than slowing
	// the publisher down.
	SubscriberBuffer int `envconfig:"SUBSCRIBER_BUFFER" default:"64"`

	UploadDir      string `envconfig:"UPLOAD_DIR" default:"static/uploads"`
	StaticDir      string `envconfig:"STATIC_DIR" default:"static"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"8388608"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
