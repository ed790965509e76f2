package config

import (
	"errors"
	"flag"
	"strings"
	"time"
	// Embedded zoneinfo so Asia/Shanghai resolves on hosts without a tz database.
	_ "time/tzdata"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// minCredentialLen filters out placeholders such as "xxx" or "cookie1".
const minCredentialLen = 10

var ErrNoCredentials = errors.New("no valid credentials configured, expected ksck=\"cookie1&cookie2\"")

type Config struct {
	Cookies       string `env:"ksck"`
	Delimiter     string `env:"KSCK_DELIMITER"  envDefault:"&"`
	BasicInfoURL  string `env:"BASIC_INFO_URL"  envDefault:"https://nebula.kuaishou.com/rest/n/nebula/activity/earn/overview/basicInfo?source=bottom_guide_first"`
	DetailInfoURL string `env:"DETAIL_INFO_URL" envDefault:"https://nebula.kuaishou.com/rest/n/nebula/account/overview"`
	Workers       int    `env:"WORKERS"         envDefault:"1"`
	Timezone      string `env:"TZ_NAME"         envDefault:"Asia/Shanghai"`
	Title         string `env:"NOTIFY_TITLE"    envDefault:"快手收益记录"`
	PushPlusToken string `env:"PUSH_PLUS_TOKEN"`
	PushPlusURL   string `env:"PUSH_PLUS_URL"   envDefault:"https://www.pushplus.plus"`
	BarkURL       string `env:"BARK_PUSH"`
	LogLvl        string `env:"LOG_LVL"         envDefault:"info"`
}

func New() *Config {
	// .env is optional, real environment wins over it.
	_ = godotenv.Load()

	cfg := &Config{}

	env.Parse(cfg)

	flag.StringVar(&cfg.Cookies, "c", cfg.Cookies, "credentials joined by the delimiter")
	flag.StringVar(&cfg.Delimiter, "s", cfg.Delimiter, "credential delimiter")
	flag.StringVar(&cfg.BasicInfoURL, "b", cfg.BasicInfoURL, "basic info endpoint")
	flag.StringVar(&cfg.DetailInfoURL, "i", cfg.DetailInfoURL, "account overview endpoint")
	flag.IntVar(&cfg.Workers, "w", cfg.Workers, "accounts processed in parallel")
	flag.StringVar(&cfg.Timezone, "z", cfg.Timezone, "timezone used to decide what today is")
	flag.StringVar(&cfg.Title, "t", cfg.Title, "notification title")
	flag.StringVar(&cfg.LogLvl, "l", cfg.LogLvl, "log level")
	flag.Parse()

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = "&"
	}

	return cfg
}

// Credentials returns the configured credentials in input order.
func (c *Config) Credentials() ([]string, error) {
	return ParseCredentials(c.Cookies, c.Delimiter)
}

// Location resolves Timezone, falling back to the local zone when it is unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		zap.L().Warn("unknown timezone, using local time", zap.String("timezone", c.Timezone), zap.Error(err))
		return time.Local
	}
	return loc
}

func ParseCredentials(raw, delimiter string) ([]string, error) {
	if delimiter == "" {
		delimiter = "&"
	}

	var creds []string
	for _, part := range strings.Split(raw, delimiter) {
		part = strings.TrimSpace(part)
		if len(part) <= minCredentialLen {
			continue
		}
		creds = append(creds, part)
	}

	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}
	return creds, nil
}
