package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/domain/port"
	"centavo.dev/internal/infrastructure/logger"
)

// Client implements the RateSource port against the external currency
// service. The contract is fail-soft: any failure (non-200 status, network
// error, timeout, malformed body) is logged and surfaces as (nil, nil),
// never as an error. Every call re-fetches; nothing is cached.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a rate client for the given endpoint. The timeout bounds
// the whole call; a slow service is treated like an unavailable one.
func NewClient(endpoint string, timeout time.Duration, logger logger.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch retrieves the current rate table and display choices
func (c *Client) Fetch(ctx context.Context) (entity.RateTable, []entity.CurrencyChoice) {
	table, choices, err := c.fetch(ctx)
	if err != nil {
		c.logger.LogWarning(ctx, "Currency rates unavailable", "endpoint", c.endpoint, "error", err.Error())
		return nil, nil
	}
	return table, choices
}

func (c *Client) fetch(ctx context.Context) (entity.RateTable, []entity.CurrencyChoice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to call rate service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("rate service returned status %d", resp.StatusCode)
	}

	return decodeRates(resp.Body)
}

// decodeRates parses a JSON object of currency code to numeric rate. It
// walks the token stream instead of decoding into a map so the choice list
// keeps the key order of the response body.
func decodeRates(r io.Reader) (entity.RateTable, []entity.CurrencyChoice, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode rates body: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("rates body is not a JSON object")
	}

	table := make(entity.RateTable)
	choices := make([]entity.CurrencyChoice, 0)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode rate key: %w", err)
		}
		code, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected rate key %v", keyTok)
		}

		var rate float64
		if err := dec.Decode(&rate); err != nil {
			return nil, nil, fmt.Errorf("failed to decode rate for %s: %w", code, err)
		}

		table[code] = rate
		choices = append(choices, entity.NewCurrencyChoice(code, rate))
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("failed to decode rates body: %w", err)
	}

	return table, choices, nil
}

var _ port.RateSource = (*Client)(nil)
