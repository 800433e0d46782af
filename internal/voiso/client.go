// Package voiso is a client for the Voiso contact-center API.
//
// Every call makes exactly one HTTP round-trip and returns the decoded JSON
// body untouched. Failures come back as one of the typed errors in errors.go.
package voiso

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/davidhbaek/voiso/internal/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// API endpoints, relative to the base URL
const (
	EndpointBalance       = "balance"
	EndpointWhatsApp      = "whatsapp/messages"
	EndpointConversations = "conversations"
)

type Client struct {
	config     *Config
	headers    http.Header
	httpClient *http.Client
	logger     zerolog.Logger
	registerer prometheus.Registerer
}

// NewClient builds a client authenticated with apiKey. An empty apiKey falls
// back to VOISO_API_KEY; if that is empty too a *ConfigurationError is returned.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	config, warnings := ConfigFromEnv()
	if apiKey != "" {
		config.APIKey = apiKey
	}

	c := &Client{
		config:     config,
		httpClient: http.DefaultClient,
		logger:     log.Logger,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	for _, w := range warnings {
		c.logger.Warn().Err(w).Msg("ignoring malformed VOISO environment variable")
	}

	if err := c.config.validate(); err != nil {
		return nil, err
	}

	c.headers = http.Header{}
	c.headers.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	c.headers.Set("Content-Type", "application/json")

	if err := c.buildHTTPClient(); err != nil {
		return nil, err
	}

	return c, nil
}

// buildHTTPClient copies the configured http.Client and layers the debug and
// metrics transports on top of its transport.
func (c *Client) buildHTTPClient() error {
	httpClient := *c.httpClient

	transport := httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	if c.config.Debug {
		transport = &debugTransport{base: transport, logger: c.logger}
	}

	if c.registerer != nil {
		instrumented, err := instrumentTransport(c.registerer, transport)
		if err != nil {
			return &ConfigurationError{Field: "metrics", Reason: err.Error()}
		}
		transport = instrumented
	}

	httpClient.Transport = transport
	if c.config.Timeout > 0 {
		httpClient.Timeout = c.config.Timeout
	}

	c.httpClient = &httpClient
	return nil
}

func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Headers returns a copy of the headers sent with every request.
func (c *Client) Headers() http.Header {
	return c.headers.Clone()
}

// GetBalance returns the contact center balance.
func (c *Client) GetBalance(ctx context.Context) (wire.Payload, error) {
	return c.do(ctx, http.MethodGet, EndpointBalance, nil)
}

// SendWhatsAppMessage sends message to phoneNumber over WhatsApp and returns
// the API's send confirmation.
func (c *Client) SendWhatsAppMessage(ctx context.Context, phoneNumber, message string) (wire.Payload, error) {
	if phoneNumber == "" {
		return nil, &ArgumentError{Field: "phone_number"}
	}
	if message == "" {
		return nil, &ArgumentError{Field: "message"}
	}

	return c.do(ctx, http.MethodPost, EndpointWhatsApp, wire.WhatsAppMessage{
		PhoneNumber: phoneNumber,
		Message:     message,
	})
}

// GetConversations returns the conversation list.
func (c *Client) GetConversations(ctx context.Context) (wire.Payload, error) {
	return c.do(ctx, http.MethodGet, EndpointConversations, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) (wire.Payload, error) {
	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s request body: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header = c.headers.Clone()

	rsp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer rsp.Body.Close()

	rspBody, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		return nil, newHTTPStatusError(rsp.StatusCode, rspBody)
	}

	var payload wire.Payload
	if err := json.Unmarshal(rspBody, &payload); err != nil {
		return nil, &DecodeError{Body: rspBody, Err: err}
	}
	if payload == nil {
		return nil, &DecodeError{Body: rspBody, Err: errors.New("response body is not a JSON object")}
	}

	return payload, nil
}
