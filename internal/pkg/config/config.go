package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, upstream hosts,
//   gateway credentials), security settings
// - default: Values common across all environments (timeouts, log format)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Gateway  GatewayConfig
	Session  SessionConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

// UpstreamConfig points at the mall API that owns orders, collections,
// carts and member sessions.
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"UPSTREAM_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"UPSTREAM_REQUEST_TIMEOUT" default:"15s"`
}

type GatewayConfig struct {
	ApplicationID string        `envconfig:"GATEWAY_APPLICATION_ID" required:"true"`
	SellerName    string        `envconfig:"GATEWAY_SELLER_NAME" default:"GIFREE"`
	ScriptURL     string        `envconfig:"GATEWAY_SCRIPT_URL" default:"https://cdn.bootpay.co.kr/js/bootpay-3.2.3.min.js"`
	APIURL        string        `envconfig:"GATEWAY_API_URL" default:"https://api.bootpay.co.kr"`
	LoadTimeout   time.Duration `envconfig:"GATEWAY_LOAD_TIMEOUT" default:"10s"`
}

type SessionConfig struct {
	CookieName   string        `envconfig:"SESSION_COOKIE_NAME" default:"sid"`
	CookieDomain string        `envconfig:"SESSION_COOKIE_DOMAIN" default:""`
	CookieSecure bool          `envconfig:"SESSION_COOKIE_SECURE" default:"true"`
	IdleTimeout  time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"24h"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Seoul"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Upstream: UpstreamConfig{
			BaseURL:        "http://localhost:18080",
			RequestTimeout: 5 * time.Second,
		},
		Gateway: GatewayConfig{
			ApplicationID: "test-application-id",
			SellerName:    "GIFREE",
			APIURL:        "http://localhost:18081",
			LoadTimeout:   5 * time.Second,
		},
		Session: SessionConfig{
			CookieName:   "sid",
			CookieSecure: false,
			IdleTimeout:  time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Seoul",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
	}
}
