package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"backend/internal/domain"
	"backend/internal/utils"
)

// Address is the autofill payload for the scheduling stage.
type Address struct {
	CEP      string `json:"cep"`
	Street   string `json:"street"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// CEPClient resolves postal codes against a ViaCEP-shaped API.
type CEPClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewCEPClient(baseURL string) *CEPClient {
	return &CEPClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 8 * time.Second},
	}
}

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

// Lookup resolves an 8-digit CEP. Unknown codes map to NotFoundError so the
// handler can answer 404 instead of a generic provider failure.
func (c *CEPClient) Lookup(ctx context.Context, cep string) (Address, error) {
	digits := utils.DigitsOnly(cep)
	if len(digits) != 8 {
		return Address{}, domain.ValidationError{Field: "cep", Msg: "CEP deve ter 8 dígitos"}
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.BaseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, domain.InternalError{Msg: "cep request build", Err: err}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Address{}, domain.ProviderError{Provider: "cep", Msg: "consulta de CEP indisponível", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Address{}, domain.ProviderError{Provider: "cep", Msg: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, domain.ProviderError{Provider: "cep", Msg: "resposta inesperada", Err: err}
	}
	if body.Erro {
		return Address{}, domain.NotFoundError{Resource: "cep"}
	}

	return Address{
		CEP:      body.CEP,
		Street:   body.Logradouro,
		District: body.Bairro,
		City:     body.Localidade,
		State:    body.UF,
	}, nil
}
