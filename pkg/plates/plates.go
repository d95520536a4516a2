// Package plates normalizes Brazilian license plates and queries the external
// plate lookup providers.
package plates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout           = 8 * time.Second
	responseReadLimit  int64 = 1 << 20
	errorBodyReadLimit int64 = 1024
	ProviderPlacaFipe        = "placafipe"
	ProviderAPIBrasil        = "apibrasil"
	FormatLegacy             = "legacy"
	FormatMercosul           = "mercosul"
)

var (
	// ErrNotFound means the provider answered but has no record for the plate.
	ErrNotFound = errors.New("plate not found")
	// ErrInvalidPlate is returned by Normalize for anything that is not a plate.
	ErrInvalidPlate = errors.New("invalid plate")

	legacyPattern   = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	mercosulPattern = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
)

// Vehicle is the provider-neutral lookup result.
type Vehicle struct {
	Plate         string `json:"plate"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          *int   `json:"year,omitempty"`
	ModelYear     *int   `json:"modelYear,omitempty"`
	Color         string `json:"color,omitempty"`
	Fuel          string `json:"fuel,omitempty"`
	ChassisSuffix string `json:"chassisSuffix,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Provider      string `json:"provider"`
}

// Provider is one external lookup source.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, plate string) (*Vehicle, error)
}

// Normalize uppercases, strips separators and validates the legacy (ABC1234)
// and Mercosul (ABC1D23) formats.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '.' || r == '_':
		default:
			return "", ErrInvalidPlate
		}
	}
	plate := b.String()
	if !legacyPattern.MatchString(plate) && !mercosulPattern.MatchString(plate) {
		return "", ErrInvalidPlate
	}
	return plate, nil
}

// Format reports which plate standard a normalized plate follows.
func Format(plate string) string {
	if mercosulPattern.MatchString(plate) {
		return FormatMercosul
	}
	return FormatLegacy
}

// Option configures optional client behavior.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	baseURL    string
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			o.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithTimeout sets the default HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.httpClient = &http.Client{Timeout: d}
		}
	}
}

func buildOptions(defaultBase string, opts []Option) clientOptions {
	o := clientOptions{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBase,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func statusError(provider string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	return fmt.Errorf("%s: status %d: %s", provider, resp.StatusCode, strings.TrimSpace(string(msg)))
}

func cleanField(v string) string {
	return strings.Join(strings.Fields(strings.ToUpper(v)), " ")
}

func parseYear(v any) *int {
	var raw string
	switch typed := v.(type) {
	case nil:
		return nil
	case float64:
		raw = strconv.Itoa(int(typed))
	case string:
		raw = strings.TrimSpace(typed)
	default:
		raw = fmt.Sprint(typed)
	}
	if len(raw) > 4 {
		raw = raw[:4]
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 2100 {
		return nil
	}
	return &year
}

func chassisSuffix(chassis string) string {
	chassis = strings.TrimSpace(chassis)
	chassis = strings.TrimLeft(chassis, "*")
	if len(chassis) > 6 {
		return chassis[len(chassis)-6:]
	}
	return chassis
}
