// Package mesomb is a minimal client for the MeSomb collection API. Requests
// are signed with the HMAC-SHA1 scheme the API expects.
package mesomb

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise-tracker/internal/config"
)

const (
	algorithm   = "HMAC-SHA1"
	service     = "payment"
	collectPath = "/api/v1.1/payment/collect/"
	maxBody     = 1 << 20
)

// ErrNotConfigured is returned when any credential is missing.
var ErrNotConfigured = errors.New("mesomb credentials are not configured")

// CollectParams describes one collection from a payer
type CollectParams struct {
	Amount      int64
	Service     string
	Payer       string
	TrxID       string
	Description string
}

// Transaction is the provider's view of a collection
type Transaction struct {
	PK        string      `json:"pk"`
	Amount    json.Number `json:"amount"`
	Service   string      `json:"service"`
	Payer     string      `json:"b_party"`
	Status    string      `json:"status"`
	Reference string      `json:"reference"`
	CreatedAt string      `json:"ts"`
}

// CollectResponse is the decoded provider answer
type CollectResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Status      string       `json:"status"`
	Transaction *Transaction `json:"transaction"`
}

// APIError carries a non-2xx provider answer
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mesomb responded %d: %s", e.StatusCode, e.Detail)
}

// Client signs and sends collection requests
type Client struct {
	baseURL        string
	applicationKey string
	accessKey      string
	secretKey      string
	httpClient     *http.Client
	now            func() time.Time
	nonce          func() string
	logger         *slog.Logger
}

func NewClient(cfg config.MesombConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		applicationKey: cfg.ApplicationKey,
		accessKey:      cfg.AccessKey,
		secretKey:      cfg.SecretKey,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		now:            time.Now,
		nonce:          func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
		logger:         logger,
	}
}

// Configured reports whether requests can be signed.
func (c *Client) Configured() bool {
	return c.applicationKey != "" && c.accessKey != "" && c.secretKey != ""
}

// Collect asks the payer's operator to debit the amount. The call runs
// synchronously on the provider side.
func (c *Client) Collect(ctx context.Context, p CollectParams) (*CollectResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"amount":     p.Amount,
		"service":    p.Service,
		"payer":      p.Payer,
		"country":    "CM",
		"currency":   "XAF",
		"fees":       true,
		"conversion": false,
		"reference":  p.TrxID,
		"message":    p.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode collect body: %w", err)
	}

	endpoint := c.baseURL + collectPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build collect request: %w", err)
	}

	now := c.now()
	nonce := c.nonce()
	authorization, err := c.sign(http.MethodPost, endpoint, now, nonce, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("x-mesomb-date", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("x-mesomb-nonce", nonce)
	req.Header.Set("Authorization", authorization)
	req.Header.Set("X-MeSomb-Application", c.applicationKey)
	req.Header.Set("X-MeSomb-OperationMode", "synchronous")
	if p.TrxID != "" {
		req.Header.Set("X-MeSomb-TrxID", p.TrxID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call mesomb: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read mesomb response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.ErrorContext(ctx, "mesomb rejected collect", "status", resp.StatusCode, "trx_id", p.TrxID)
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}

	var out CollectResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode mesomb response: %w", err)
	}
	return &out, nil
}

func errorDetail(raw []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

// sign builds the Authorization header value over the method, path,
// query, signed headers and body hash.
func (c *Client) sign(method, endpoint string, now time.Time, nonce string, body []byte) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid mesomb url: %w", err)
	}

	timestamp := strconv.FormatInt(now.Unix(), 10)
	headers := map[string]string{
		"host":           u.Scheme + "://" + u.Host,
		"x-mesomb-date":  timestamp,
		"x-mesomb-nonce": nonce,
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	canonicalHeaders := make([]string, 0, len(keys))
	for _, k := range keys {
		canonicalHeaders = append(canonicalHeaders, k+":"+strings.TrimSpace(headers[k]))
	}
	signedHeaders := strings.Join(keys, ";")

	canonicalRequest := strings.Join([]string{
		method,
		u.EscapedPath(),
		u.RawQuery,
		strings.Join(canonicalHeaders, "\n"),
		signedHeaders,
		sha1Hex(body),
	}, "\n")

	scope := now.UTC().Format("20060102") + "/" + service + "/mesomb_request"
	stringToSign := algorithm + "\n" + timestamp + "\n" + scope + "\n" + sha1Hex([]byte(canonicalRequest))

	mac := hmac.New(sha1.New, []byte(c.secretKey))
	mac.Write([]byte(stringToSign))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm, c.accessKey, scope, signedHeaders, signature), nil
}

func sha1Hex(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
