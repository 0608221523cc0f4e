package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// KorapayProvider creates hosted checkout charges via the Korapay merchant API.
type KorapayProvider struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewKorapayProvider(baseURL, secretKey string) *KorapayProvider {
	if baseURL == "" {
		baseURL = "https://api.korapay.com/merchant/api/v1"
	}
	return &KorapayProvider{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type korapayCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type korapayChargeReq struct {
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Reference   string          `json:"reference"`
	Narration   string          `json:"narration,omitempty"`
	RedirectURL string          `json:"redirect_url,omitempty"`
	Customer    korapayCustomer `json:"customer"`
}

type korapayChargeResp struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference   string `json:"reference"`
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

func (p *KorapayProvider) InitializeCharge(ctx context.Context, r ChargeRequest) (*ChargeResponse, error) {
	payload := korapayChargeReq{
		Amount:      r.Amount,
		Currency:    r.Currency,
		Reference:   r.Reference,
		Narration:   r.Narration,
		RedirectURL: r.RedirectURL,
		Customer:    korapayCustomer{Name: r.CustomerName, Email: r.CustomerEmail},
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/charges/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusConflict {
		return nil, ErrDuplicateReference
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[Korapay] initialize failed status=%d body=%s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("korapay initialize: %d %s", resp.StatusCode, string(respBody))
	}
	var out korapayChargeResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.Data.CheckoutURL == "" {
		return nil, fmt.Errorf("korapay: initialize returned no checkout_url (%s)", out.Message)
	}
	return &ChargeResponse{Reference: out.Data.Reference, CheckoutURL: out.Data.CheckoutURL}, nil
}

type korapayStatusResp struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
	} `json:"data"`
}

func (p *KorapayProvider) ChargeStatus(ctx context.Context, reference string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/charges/"+reference, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("[Korapay] status query failed ref=%s status=%d body=%s", reference, resp.StatusCode, string(respBody))
		return "", fmt.Errorf("korapay status: %d %s", resp.StatusCode, string(respBody))
	}
	var out korapayStatusResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	return out.Data.Status, nil
}
