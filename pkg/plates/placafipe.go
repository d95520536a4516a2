package plates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const placaFipeBaseURL = "https://api.placafipe.com.br"

// PlacaFipeClient queries the PlacaFipe plate API.
type PlacaFipeClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewPlacaFipeClient requires the account token.
func NewPlacaFipeClient(token string, opts ...Option) (*PlacaFipeClient, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("placafipe token is required")
	}
	o := buildOptions(placaFipeBaseURL, opts)
	return &PlacaFipeClient{httpClient: o.httpClient, baseURL: o.baseURL, token: token}, nil
}

func (c *PlacaFipeClient) Name() string { return ProviderPlacaFipe }

func (c *PlacaFipeClient) Lookup(ctx context.Context, plate string) (*Vehicle, error) {
	payload, err := json.Marshal(map[string]string{"placa": plate, "token": c.token})
	if err != nil {
		return nil, fmt.Errorf("placafipe: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/getplaca", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("placafipe: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("placafipe: execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(ProviderPlacaFipe, resp)
	}

	var apiResp struct {
		Code    int    `json:"codigo"`
		Message string `json:"msg"`
		Info    *struct {
			Make      string `json:"marca"`
			Model     string `json:"modelo"`
			Year      any    `json:"ano"`
			ModelYear any    `json:"ano_modelo"`
			Color     string `json:"cor"`
			Fuel      string `json:"combustivel"`
			Chassis   string `json:"chassi"`
			City      string `json:"municipio"`
			State     string `json:"uf"`
		} `json:"informacoes_veiculo"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseReadLimit)).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("placafipe: decode response: %w", err)
	}
	found := apiResp.Info != nil && strings.TrimSpace(apiResp.Info.Make) != ""
	switch {
	case apiResp.Code == 1 && found:
	case apiResp.Code == 0 || apiResp.Code == 1:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("placafipe: code %d: %s", apiResp.Code, apiResp.Message)
	}

	info := apiResp.Info
	return &Vehicle{
		Plate:         plate,
		Make:          cleanField(info.Make),
		Model:         cleanField(info.Model),
		Year:          parseYear(info.Year),
		ModelYear:     parseYear(info.ModelYear),
		Color:         cleanField(info.Color),
		Fuel:          cleanField(info.Fuel),
		ChassisSuffix: chassisSuffix(info.Chassis),
		City:          cleanField(info.City),
		State:         cleanField(info.State),
		Provider:      ProviderPlacaFipe,
	}, nil
}
