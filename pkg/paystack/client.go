package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

type Client struct {
	apiURL     string
	secretKey  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

func (c *Client) LoggerComponent() string {
	return "Paystack.Client"
}

func NewClient(apiURL, secretKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		apiURL:     apiURL,
		secretKey:  secretKey,
		httpClient: http.DefaultClient,
		logger:     log.Logger,
	}

	for _, o := range opts {
		o(c)
	}

	if c.breaker == nil {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "paystack",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
	}

	c.logger = c.logger.With().Str("component", c.LoggerComponent()).Logger()

	return c, nil
}

type ClientOption func(*Client)

func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithBreaker(cb *gobreaker.CircuitBreaker) ClientOption {
	return func(c *Client) {
		c.breaker = cb
	}
}

// InitializeTransaction creates a payment intent and returns the redirect
// handle the buyer must follow to authorize it.
func (c *Client) InitializeTransaction(ctx context.Context, in *InitializeRequest, out *InitializeResponse) error {
	l := c.logger.With().
		Str("method", "InitializeTransaction").
		Str("reference", in.Reference).
		Logger()
	ctx = l.WithContext(ctx)

	if err := c.genericCall(ctx, http.MethodPost, "/transaction/initialize", in, out); err != nil {
		return err
	}

	l.Debug().
		Str("authorization_url", out.Data.AuthorizationURL).
		Str("provider_reference", out.Data.Reference).
		Msg("InitializeTransaction success")

	return nil
}

// VerifyTransaction fetches the final status of the referenced intent.
func (c *Client) VerifyTransaction(ctx context.Context, reference string, out *VerifyResponse) error {
	l := c.logger.With().
		Str("method", "VerifyTransaction").
		Str("reference", reference).
		Logger()
	ctx = l.WithContext(ctx)

	if err := c.genericCall(ctx, http.MethodGet, fmt.Sprintf("/transaction/verify/%s", reference), nil, out); err != nil {
		return err
	}

	l.Debug().
		Str("intent_status", out.Data.Status).
		Int64("amount", out.Data.Amount).
		Msg("VerifyTransaction success")

	return nil
}

type RemoteError struct {
	ResponseBody string
	StatusCode   int
}

func NewRemoteError(responseBody string, statusCode int) *RemoteError {
	return &RemoteError{ResponseBody: responseBody, StatusCode: statusCode}
}

func (e *RemoteError) Error() string {
	return e.ResponseBody
}

func (c *Client) genericCall(ctx context.Context, method, endpoint string, in interface{}, out interface{}) error {
	l := zerolog.Ctx(ctx).With().Str("http_method", method).Str("endpoint", endpoint).Logger()
	ctx = l.WithContext(ctx)

	_, err := c.breaker.Execute(func() (interface{}, error) {
		res, err := c.request(ctx, method, endpoint, in)
		if err != nil {
			l.Error().Err(err).Msg("Provider request failed")
			return nil, errors.Wrap(err, "request")
		}

		if res.StatusCode >= 400 {
			resBody := readString(res.Body)
			l.Error().
				Int("http_status", res.StatusCode).
				Str("http_body", resBody).
				Msg("Provider responded with error")
			return nil, NewRemoteError(resBody, res.StatusCode)
		}

		if err := readJSON(res.Body, out); err != nil {
			return nil, errors.Wrap(err, "body read")
		}

		return nil, nil
	})

	return err
}

func (c *Client) request(
	ctx context.Context,
	method string,
	endpoint string,
	bodyParams interface{},
) (*http.Response, error) {
	fullURL := c.apiURL + endpoint
	l := zerolog.Ctx(ctx).With().
		Str("http_method", method).
		Str("url", fullURL).
		Logger()
	l.Debug().Msg("HTTP request")

	var body *bytes.Reader
	if bodyParams != nil {
		rawJSON, err := json.Marshal(bodyParams)
		if err != nil {
			return nil, errors.Wrap(err, "json encode")
		}
		body = bytes.NewReader(rawJSON)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, fullURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req = req.WithContext(ctx)

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", "Bearer "+c.secretKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		l.Error().Err(err).Msg("Call failed")
		return nil, errors.Wrap(err, "do request")
	}

	return res, nil
}
