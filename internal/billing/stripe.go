// Package billing creates and emails Stripe invoices for the admin shell.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/rs/zerolog"
)

var billingLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	billingLogger = l
}

const DefaultStripeAPI = "https://api.stripe.com"

var ErrNotConfigured = errors.New("stripe: not configured")

type InvoiceParams struct {
	Email        string
	Name         string
	Description  string
	AmountCents  int64
	Currency     string
	DaysUntilDue int
}

type Invoice struct {
	ID               string `json:"id"`
	HostedInvoiceURL string `json:"hosted_invoice_url"`
}

// Client is the slice of the Stripe API the billing handler uses.
type Client interface {
	// SendInvoice creates, finalizes and emails a one-line invoice.
	SendInvoice(ctx context.Context, params InvoiceParams) (*Invoice, error)
}

// APIError is an error body returned by Stripe.
type APIError struct {
	Status  int    `json:"-"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stripe: %s (%d)", e.Message, e.Status)
}

// StripeClient talks to the Stripe REST API with form-encoded requests.
type StripeClient struct {
	SecretKey  string
	BaseURL    string
	httpClient *http.Client
}

func NewStripeClient(secretKey, baseURL string) *StripeClient {
	if baseURL == "" {
		baseURL = DefaultStripeAPI
	}
	return &StripeClient{
		SecretKey:  secretKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	endpoint := c.BaseURL + path
	if method == http.MethodGet {
		if len(form) > 0 {
			endpoint += "?" + form.Encode()
		}
	} else {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set(config.HAuthorization, config.BearerPrefix+c.SecretKey)
	if body != nil {
		req.Header.Set(config.HCType, config.CTypeForm)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var result struct {
			Error *APIError `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || result.Error == nil {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		result.Error.Status = resp.StatusCode
		return result.Error
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("stripe %s %s: decoding response: %w", method, path, err)
	}
	return nil
}

// findOrCreateCustomer reuses the first customer with a matching email.
func (c *StripeClient) findOrCreateCustomer(ctx context.Context, email, name string) (string, error) {
	var list struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/customers", url.Values{"email": {email}, "limit": {"1"}}, &list); err != nil {
		return "", err
	}
	if len(list.Data) > 0 {
		return list.Data[0].ID, nil
	}

	var customer struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/customers", url.Values{"email": {email}, "name": {name}}, &customer); err != nil {
		return "", err
	}
	billingLogger.Info().Str("customer_id", customer.ID).Msg("Stripe customer created")
	return customer.ID, nil
}

func (c *StripeClient) SendInvoice(ctx context.Context, p InvoiceParams) (*Invoice, error) {
	if c.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	customerID, err := c.findOrCreateCustomer(ctx, p.Email, p.Name)
	if err != nil {
		return nil, err
	}

	var draft Invoice
	err = c.do(ctx, http.MethodPost, "/v1/invoices", url.Values{
		"customer":          {customerID},
		"collection_method": {"send_invoice"},
		"days_until_due":    {strconv.Itoa(p.DaysUntilDue)},
		"description":       {p.Description},
		"currency":          {p.Currency},
		"auto_advance":      {"false"},
	}, &draft)
	if err != nil {
		return nil, err
	}

	var item struct {
		ID string `json:"id"`
	}
	err = c.do(ctx, http.MethodPost, "/v1/invoiceitems", url.Values{
		"customer":    {customerID},
		"invoice":     {draft.ID},
		"amount":      {strconv.FormatInt(p.AmountCents, 10)},
		"currency":    {p.Currency},
		"description": {p.Description},
	}, &item)
	if err != nil {
		return nil, err
	}

	var finalized Invoice
	if err := c.do(ctx, http.MethodPost, "/v1/invoices/"+draft.ID+"/finalize", url.Values{}, &finalized); err != nil {
		return nil, err
	}

	var sent Invoice
	if err := c.do(ctx, http.MethodPost, "/v1/invoices/"+draft.ID+"/send", url.Values{}, &sent); err != nil {
		return nil, err
	}
	if sent.HostedInvoiceURL == "" {
		sent.HostedInvoiceURL = finalized.HostedInvoiceURL
	}

	billingLogger.Info().Str("invoice_id", sent.ID).Int64("amount_cents", p.AmountCents).Msg("Stripe invoice sent")
	return &sent, nil
}
