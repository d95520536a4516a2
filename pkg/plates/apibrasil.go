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

const apiBrasilBaseURL = "https://gateway.apibrasil.io"

// APIBrasilClient queries the APIBrasil vehicle data endpoint.
type APIBrasilClient struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	deviceToken string
}

// NewAPIBrasilClient requires the bearer token; the device token is optional.
func NewAPIBrasilClient(token, deviceToken string, opts ...Option) (*APIBrasilClient, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("apibrasil token is required")
	}
	o := buildOptions(apiBrasilBaseURL, opts)
	return &APIBrasilClient{
		httpClient:  o.httpClient,
		baseURL:     o.baseURL,
		token:       token,
		deviceToken: strings.TrimSpace(deviceToken),
	}, nil
}

func (c *APIBrasilClient) Name() string { return ProviderAPIBrasil }

func (c *APIBrasilClient) Lookup(ctx context.Context, plate string) (*Vehicle, error) {
	payload, err := json.Marshal(map[string]string{"placa": plate})
	if err != nil {
		return nil, fmt.Errorf("apibrasil: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/vehicles/dados", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("apibrasil: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.deviceToken != "" {
		req.Header.Set("DeviceToken", c.deviceToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apibrasil: execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(ProviderAPIBrasil, resp)
	}

	var apiResp struct {
		Error    bool   `json:"error"`
		Message  string `json:"message"`
		Response *struct {
			Make      string `json:"MARCA"`
			Model     string `json:"MODELO"`
			Year      any    `json:"ano"`
			ModelYear any    `json:"anoModelo"`
			Color     string `json:"cor"`
			Fuel      string `json:"combustivel"`
			Chassis   string `json:"chassi"`
			City      string `json:"municipio"`
			State     string `json:"uf"`
		} `json:"response"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseReadLimit)).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("apibrasil: decode response: %w", err)
	}
	if apiResp.Error {
		if strings.Contains(strings.ToLower(apiResp.Message), "encontrad") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("apibrasil: %s", apiResp.Message)
	}
	if apiResp.Response == nil || strings.TrimSpace(apiResp.Response.Make) == "" {
		return nil, ErrNotFound
	}

	data := apiResp.Response
	return &Vehicle{
		Plate:         plate,
		Make:          cleanField(data.Make),
		Model:         cleanField(data.Model),
		Year:          parseYear(data.Year),
		ModelYear:     parseYear(data.ModelYear),
		Color:         cleanField(data.Color),
		Fuel:          cleanField(data.Fuel),
		ChassisSuffix: chassisSuffix(data.Chassis),
		City:          cleanField(data.City),
		State:         cleanField(data.State),
		Provider:      ProviderAPIBrasil,
	}, nil
}
