// Package gateway is the savings-side client of the payment relay. It
// normalizes every outcome of a collection request into a Result and
// never surfaces transport failures as errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendwise-tracker/internal/logger"
	"github.com/spendwise-tracker/internal/config"
	"github.com/spendwise-tracker/internal/domain/shared"
)

const (
	collectPath        = "/api/payments/collect"
	defaultDescription = "Savings deposit"
	maxErrorBody       = 4 << 10

	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusError   = "ERROR"
)

// CollectRequest asks the relay to pull funds from a payer. The caller
// validates the payer number beforehand.
type CollectRequest struct {
	Amount      decimal.Decimal
	Service     shared.CarrierService
	Payer       string
	TrxID       string
	Description string
}

// Transaction is the gateway's record of a collection
type Transaction struct {
	PK        string      `json:"pk"`
	Amount    json.Number `json:"amount"`
	Service   string      `json:"service"`
	Payer     string      `json:"payer"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"created_at"`
}

// Result is the uniform outcome of Collect
type Result struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Status      string       `json:"status"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Error       string       `json:"error,omitempty"`
	Simulated   bool         `json:"simulated"`
}

// Reference returns the gateway key of the collection, if any.
func (r Result) Reference() string {
	if r.Transaction == nil {
		return ""
	}
	return r.Transaction.PK
}

type collectBody struct {
	Amount      json.Number `json:"amount"`
	Service     string      `json:"service"`
	Payer       string      `json:"payer"`
	TrxID       string      `json:"trxID"`
	Description string      `json:"description"`
}

type relayResponse struct {
	Success     *bool        `json:"success"`
	Message     string       `json:"message"`
	Status      string       `json:"status"`
	Transaction *Transaction `json:"transaction"`
	Error       string       `json:"error"`
}

// Client calls the relay's collection endpoint
type Client struct {
	baseURL     string
	httpClient  *http.Client
	fallback    bool
	delay       time.Duration
	successRate float64
	random      func() float64
	now         func() time.Time
	logger      *slog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRandom replaces the source deciding simulated outcomes.
func WithRandom(random func() float64) Option {
	return func(c *Client) { c.random = random }
}

// WithClock replaces the clock used for generated references.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(cfg config.GatewayConfig, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.RelayURL, "/"),
		httpClient:  newHTTPClient(cfg.Timeout),
		fallback:    cfg.SimulationFallback,
		delay:       cfg.SimulationDelay,
		successRate: cfg.SimulationSuccessRate,
		random:      rand.Float64,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// Collect sends the request and always returns a Result. When the relay
// cannot be reached and fallback is enabled, the outcome is simulated and
// flagged as such. A timeout is not treated as unreachability because the
// request may already have been accepted upstream.
func (c *Client) Collect(ctx context.Context, req CollectRequest) Result {
	if req.TrxID == "" {
		req.TrxID = "savings_" + strconv.FormatInt(c.now().UnixMilli(), 10)
	}
	if req.Description == "" {
		req.Description = defaultDescription
	}

	body, err := json.Marshal(collectBody{
		Amount:      json.Number(req.Amount.String()),
		Service:     string(req.Service),
		Payer:       req.Payer,
		TrxID:       req.TrxID,
		Description: req.Description,
	})
	if err != nil {
		return failure(fmt.Errorf("failed to encode collect request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+collectPath, bytes.NewReader(body))
	if err != nil {
		return failure(fmt.Errorf("failed to build collect request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		httpReq.Header.Set(logger.CorrelationIDHeader, correlationID)
	}

	c.logger.InfoContext(ctx, "sending collect request", "trx_id", req.TrxID, "service", req.Service, "amount", req.Amount.String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.fallback && unreachable(err) {
			c.logger.WarnContext(ctx, "payment relay unreachable, simulating outcome", "trx_id", req.TrxID, "error", err)
			return c.simulate(ctx, req)
		}
		c.logger.ErrorContext(ctx, "collect request failed", "trx_id", req.TrxID, "error", err)
		return failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.ErrorContext(ctx, "relay rejected collect request", "trx_id", req.TrxID, "status", resp.StatusCode)
		return failure(fmt.Errorf("HTTP error! status: %d, message: %s", resp.StatusCode, strings.TrimSpace(string(text))))
	}

	var decoded relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return failure(fmt.Errorf("failed to decode relay response: %w", err))
	}
	if decoded.Success == nil {
		return failure(errors.New("malformed relay response: missing success flag"))
	}

	return Result{
		Success:     *decoded.Success,
		Message:     decoded.Message,
		Status:      decoded.Status,
		Transaction: decoded.Transaction,
		Error:       decoded.Error,
	}
}

func failure(err error) Result {
	return Result{
		Success: false,
		Message: "Failed to process payment",
		Status:  StatusError,
		Error:   err.Error(),
	}
}

// unreachable reports failures where no connection to the relay was made.
func unreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}

func (c *Client) simulate(ctx context.Context, req CollectRequest) Result {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			res := failure(ctx.Err())
			res.Simulated = true
			return res
		}
	}

	if c.random() >= c.successRate {
		return Result{
			Success:   false,
			Message:   "Payment failed (Simulation)",
			Status:    StatusFailed,
			Error:     "Simulated payment failure",
			Simulated: true,
		}
	}

	now := c.now()
	return Result{
		Success: true,
		Message: "Payment processed successfully (Simulation)",
		Status:  StatusSuccess,
		Transaction: &Transaction{
			PK:        "sim_" + strconv.FormatInt(now.UnixMilli(), 10),
			Amount:    json.Number(req.Amount.String()),
			Service:   string(req.Service),
			Payer:     req.Payer,
			Status:    StatusSuccess,
			CreatedAt: now.UTC().Format(time.RFC3339),
		},
		Simulated: true,
	}
}
