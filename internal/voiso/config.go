package voiso

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is the versioned origin of the Voiso API.
const DefaultBaseURL = "https://api.voiso.com/v1"

const envPrefix = "VOISO"

// Config is read once when the client is built and never changes afterwards.
//
// Environment variables: VOISO_API_KEY, VOISO_BASE_URL, VOISO_TIMEOUT, VOISO_DEBUG.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration // zero means no timeout
	Debug   bool
}

// ConfigFromEnv reads the VOISO_* environment. A missing API key is not an
// error here; NewClient decides once an explicit key has had its chance.
//
// Each variable is read on its own. A malformed optional value is reported
// in warnings and the default is kept, so it never blocks construction.
func ConfigFromEnv() (*Config, []error) {
	config := &Config{BaseURL: DefaultBaseURL}
	var warnings []error

	apiKey := struct {
		APIKey string `split_words:"true"`
	}{}
	if err := envconfig.Process(envPrefix, &apiKey); err != nil {
		warnings = append(warnings, &ConfigurationError{Field: "api_key", Reason: err.Error()})
	}
	config.APIKey = apiKey.APIKey

	baseURL := struct {
		BaseURL string `split_words:"true"`
	}{}
	if err := envconfig.Process(envPrefix, &baseURL); err != nil {
		warnings = append(warnings, &ConfigurationError{Field: "base_url", Reason: err.Error()})
	} else if baseURL.BaseURL != "" {
		if err := checkBaseURL(baseURL.BaseURL); err != nil {
			warnings = append(warnings, err)
		} else {
			config.BaseURL = baseURL.BaseURL
		}
	}

	timeout := struct {
		Timeout time.Duration
	}{}
	if err := envconfig.Process(envPrefix, &timeout); err != nil {
		warnings = append(warnings, &ConfigurationError{Field: "timeout", Reason: err.Error()})
	} else if timeout.Timeout < 0 {
		warnings = append(warnings, &ConfigurationError{Field: "timeout", Reason: "must not be negative"})
	} else {
		config.Timeout = timeout.Timeout
	}

	debug := struct {
		Debug bool
	}{}
	if err := envconfig.Process(envPrefix, &debug); err != nil {
		warnings = append(warnings, &ConfigurationError{Field: "debug", Reason: err.Error()})
	} else {
		config.Debug = debug.Debug
	}

	return config, warnings
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return &ConfigurationError{
			Field:  "api_key",
			Reason: fmt.Sprintf("API key is required. Set %s_API_KEY environment variable or pass it directly", envPrefix),
		}
	}

	if err := checkBaseURL(c.BaseURL); err != nil {
		return err
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.Timeout < 0 {
		return &ConfigurationError{Field: "timeout", Reason: "must not be negative"}
	}

	return nil
}

func checkBaseURL(baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return &ConfigurationError{Field: "base_url", Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return &ConfigurationError{Field: "base_url", Reason: fmt.Sprintf("%q is not an absolute http(s) URL", baseURL)}
	}
	return nil
}
