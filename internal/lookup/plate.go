package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	neturl "net/url"
	"strconv"
	"time"

	"backend/internal/domain"
	"backend/internal/utils"
)

// RegistryInfo is the vehicle-registry answer for a plate.
type RegistryInfo struct {
	Plate     string `json:"plate"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	ModelYear int    `json:"modelYear"`
	Status    string `json:"status"` // regular | stolen | restricted
}

// PriceReference is the market-price estimate keyed by brand/model/year.
type PriceReference struct {
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	ModelYear  int    `json:"modelYear"`
	PriceCents int64  `json:"priceCents"`
	Source     string `json:"source,omitempty"`
}

// RegistryClient queries the vehicle registry and its price-reference table.
type RegistryClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewRegistryClient(baseURL, apiKey string) *RegistryClient {
	return &RegistryClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RegistryClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.InternalError{Msg: "registry request build", Err: err}
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.ProviderError{Provider: "registry", Msg: "registro veicular indisponível", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ProviderError{Provider: "registry", Msg: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.ProviderError{Provider: "registry", Msg: "resposta inesperada", Err: err}
	}
	return nil
}

// ByPlate resolves plate → brand/model/year/status.
func (c *RegistryClient) ByPlate(ctx context.Context, plate string) (RegistryInfo, error) {
	normalized := utils.NormalizePlate(plate)
	if len(normalized) != 7 {
		return RegistryInfo{}, domain.ValidationError{Field: "plate", Msg: "placa inválida"}
	}

	var info RegistryInfo
	url := fmt.Sprintf("%s/v1/vehicles/%s", c.BaseURL, normalized)
	if err := c.get(ctx, url, &info); err != nil {
		return RegistryInfo{}, err
	}
	info.Plate = normalized
	return info, nil
}

// PriceByModel resolves the secondary price-reference lookup.
func (c *RegistryClient) PriceByModel(ctx context.Context, brand, model string, year int) (PriceReference, error) {
	if brand == "" || model == "" || year <= 0 {
		return PriceReference{}, domain.ValidationError{Field: "model", Msg: "marca, modelo e ano são obrigatórios"}
	}

	params := neturl.Values{}
	params.Set("brand", brand)
	params.Set("model", model)
	params.Set("year", strconv.Itoa(year))

	var ref PriceReference
	url := c.BaseURL + "/v1/prices?" + params.Encode()
	if err := c.get(ctx, url, &ref); err != nil {
		return PriceReference{}, err
	}
	return ref, nil
}
