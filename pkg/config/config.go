package config

import (
	"time"
)

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[walletchat]"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Lava configures the payments-service client. SecretKey authenticates this
// backend against the payments API; ProductSecret is mixed into forward
// tokens; OriginUrl is handed to hosted checkout sessions for redirects.
type Lava struct {
	SecretKey     string        `envconfig:"SECRET_KEY" required:"true"`
	ProductSecret string        `envconfig:"PRODUCT_SECRET" required:"true"`
	ApiVersion    string        `envconfig:"API_VERSION" default:"2025-03-27.v1"`
	ApiUrl        string        `envconfig:"API_URL" default:"https://api.lavapayments.com/v1"`
	OriginUrl     string        `envconfig:"ORIGIN_URL" default:"http://localhost:3000"`
	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
}

// Chat pins the model served to every conversation; the model is never
// client-selectable.
type Chat struct {
	Model string `envconfig:"MODEL" default:"gpt-4o-mini"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Lava      *Lava      `envconfig:"LAVA"`
	Chat      *Chat      `envconfig:"CHAT"`
}
