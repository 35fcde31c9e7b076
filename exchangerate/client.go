// Package exchangerate fetches currency rate sheets and computes
// conversions through the portal's base currency.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Javiko0420/plataforma-colombiana-sub000/gateway"
)

const DefaultBaseURL = "https://open.er-api.com/v6"

// DefaultBaseCurrency is the portal's home currency.
const DefaultBaseCurrency = "COP"

// RateSheet is one base currency's full rate table. Rates are units of
// target per 1 unit of base.
type RateSheet struct {
	Base       string             `json:"base"`
	Rates      map[string]float64 `json:"rates"`
	LastUpdate time.Time          `json:"last_update"`
}

// Conversion is the result of converting an amount between two currencies.
type Conversion struct {
	Amount     float64   `json:"amount"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Result     float64   `json:"result"`
	LastUpdate time.Time `json:"last_update"`
}

// UnknownCurrencyError names a currency code missing from the fetched
// rate sheet.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency code %q", e.Code)
}

// Providers disagree on the field name for the rate map; accept both.
type ratesResponse struct {
	BaseCode        string             `json:"base_code"`
	Rates           map[string]float64 `json:"rates"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	LastUpdateUnix  int64              `json:"time_last_update_unix"`
}

// Client talks to the currency provider through the gateway's cache and
// retry infrastructure.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	base    string
	gw      *gateway.Group
	retry   gateway.Retryer
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw == "" {
			return
		}
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

func WithBaseCurrency(code string) Option {
	return func(c *Client) {
		if code != "" {
			c.base = strings.ToUpper(code)
		}
	}
}

func WithRetryer(r gateway.Retryer) Option {
	return func(c *Client) { c.retry = r }
}

// New returns a currency client backed by gw.
func New(gw *gateway.Group, opts ...Option) *Client {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: u,
		base:    DefaultBaseCurrency,
		gw:      gw,
		retry:   gateway.NewRetryer(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Latest returns the rate sheet for base. Rates are not intraday-volatile
// in this product, so the sheet always uses the long TTL tier.
func (c *Client) Latest(ctx context.Context, base string) (*RateSheet, error) {
	base = strings.ToUpper(base)
	if err := validCode(base); err != nil {
		return nil, err
	}
	params := gateway.Params{}.Set("base", base)
	key := gateway.Key("exchangerate/latest", params)
	ttl := gateway.TTLFor(gateway.Hints{Slow: true}, c.now())

	sheet, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) (*RateSheet, error) {
		return c.fetchLatest(ctx, base)
	})
	return sheet, err
}

// Convert converts amount between two arbitrary currencies relative to
// the client's configured base sheet: a direct rate lookup when either
// side is the base, otherwise through the base. Compounding rounding
// error across the two divisions is a known property of this scheme.
func (c *Client) Convert(ctx context.Context, amount float64, from, to string) (*Conversion, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if err := validCode(from); err != nil {
		return nil, err
	}
	if err := validCode(to); err != nil {
		return nil, err
	}

	sheet, err := c.Latest(ctx, c.base)
	if err != nil {
		return nil, err
	}
	result, err := sheet.Convert(amount, from, to)
	if err != nil {
		return nil, err
	}
	return &Conversion{
		Amount:     amount,
		From:       from,
		To:         to,
		Result:     result,
		LastUpdate: sheet.LastUpdate,
	}, nil
}

// Convert converts amount using this sheet's rates.
func (s *RateSheet) Convert(amount float64, from, to string) (float64, error) {
	rate := func(code string) (float64, error) {
		r, ok := s.Rates[code]
		if !ok {
			return 0, &UnknownCurrencyError{Code: code}
		}
		return r, nil
	}
	if from == to {
		// Identity, but the code still has to exist in the sheet.
		if from != s.Base {
			if _, err := rate(from); err != nil {
				return 0, err
			}
		}
		return amount, nil
	}
	switch {
	case from == s.Base:
		r, err := rate(to)
		if err != nil {
			return 0, err
		}
		return amount * r, nil
	case to == s.Base:
		r, err := rate(from)
		if err != nil {
			return 0, err
		}
		return amount / r, nil
	default:
		rf, err := rate(from)
		if err != nil {
			return 0, err
		}
		rt, err := rate(to)
		if err != nil {
			return 0, err
		}
		return amount / rf * rt, nil
	}
}

func (c *Client) fetchLatest(ctx context.Context, base string) (*RateSheet, error) {
	u := *c.baseURL
	u.Path = u.Path + "/latest/" + base

	var sheet *RateSheet
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return &gateway.StatusError{StatusCode: resp.StatusCode, Body: body}
		}

		var raw ratesResponse
		if err := json.Unmarshal(body, &raw); err != nil {
			return gateway.BadResponse("exchangerate: %v", err)
		}
		rates := raw.Rates
		if len(rates) == 0 {
			rates = raw.ConversionRates
		}
		if len(rates) == 0 {
			return gateway.BadResponse("exchangerate: no rates in response")
		}
		if raw.BaseCode != "" && raw.BaseCode != base {
			return gateway.BadResponse("exchangerate: asked for base %s, got %s", base, raw.BaseCode)
		}
		sheet = &RateSheet{
			Base:       base,
			Rates:      rates,
			LastUpdate: time.Unix(raw.LastUpdateUnix, 0).UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

func validCode(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("exchangerate: invalid currency code %q", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("exchangerate: invalid currency code %q", code)
		}
	}
	return nil
}
