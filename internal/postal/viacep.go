package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-checkout/internal/domain"
)

// Result is a resolved postal code.
type Result struct {
	Street       string
	Complement   string
	Neighborhood string
	City         string
	State        string
}

// Client looks postal codes up against a ViaCEP-compatible service. The
// lookup is advisory: callers treat any error as "keep typing by hand".
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Find resolves an 8-digit postal code. Unknown codes return
// domain.ErrPostalNotFound; transport failures come back as-is.
func (c *Client) Find(ctx context.Context, cep string) (*Result, error) {
	digits := domain.Digits(cep)
	if len(digits) != 8 {
		return nil, fmt.Errorf("cep must have 8 digits, got %q", cep)
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postal lookup returned status %d", res.StatusCode)
	}

	var payload struct {
		Erro        bool   `json:"erro"`
		Logradouro  string `json:"logradouro"`
		Complemento string `json:"complemento"`
		Bairro      string `json:"bairro"`
		Localidade  string `json:"localidade"`
		UF          string `json:"uf"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Erro {
		return nil, domain.ErrPostalNotFound
	}

	return &Result{
		Street:       payload.Logradouro,
		Complement:   payload.Complemento,
		Neighborhood: payload.Bairro,
		City:         payload.Localidade,
		State:        strings.ToUpper(payload.UF),
	}, nil
}
