// Package invoice validates the operator's invoice form and sends it to the billing endpoint.
package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/rs/zerolog"
)

var invoiceLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	invoiceLogger = l
}

// Form is the invoice form as typed by the operator.
type Form struct {
	Email       string
	Name        string
	AmountUSD   string
	Description string
}

// Request is the JSON body sent to the billing endpoint.
type Request struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amountCents"`
	Description string `json:"description"`
}

type Receipt struct {
	HostedInvoiceURL string `json:"hostedInvoiceUrl"`
	InvoiceID        string `json:"invoiceId,omitempty"`
}

// TokenSource yields the bearer token of the signed-in operator.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a token already in hand.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

var ErrUnauthenticated = errors.New("invoice: not signed in")

type ValidationError struct {
	Email  bool
	Name   bool
	Amount bool
}

func (e *ValidationError) Error() string {
	var missing []string
	if e.Email {
		missing = append(missing, "email")
	}
	if e.Name {
		missing = append(missing, "name")
	}
	if e.Amount {
		missing = append(missing, "positive amount")
	}
	return "invoice: missing " + strings.Join(missing, ", ")
}

// BillingError is a failed call to the billing endpoint. Message is safe to show the operator.
type BillingError struct {
	Status  int
	Message string
	Err     error
}

func (e *BillingError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("invoice: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("invoice: billing returned %d: %s", e.Status, e.Message)
}

func (e *BillingError) Unwrap() error {
	return e.Err
}

var hundred = big.NewRat(100, 1)

// ToCents converts a decimal dollar amount to cents, rounding half away from zero.
// Input that is not a plain decimal number converts to 0.
func ToCents(amount string) int64 {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.ContainsAny(amount, "/_") {
		return 0
	}

	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return 0
	}
	r.Mul(r, hundred)

	q, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	// |2*rem| >= denom means the fraction is at least one half.
	if rem.Abs(rem).Lsh(rem, 1).Cmp(r.Denom()) >= 0 {
		if r.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}

	if !q.IsInt64() {
		return 0
	}
	return q.Int64()
}

// Validate converts the form into a request, or reports every missing field.
func (f Form) Validate() (Request, error) {
	req := Request{
		Email:       strings.TrimSpace(f.Email),
		Name:        strings.TrimSpace(f.Name),
		AmountCents: ToCents(f.AmountUSD),
		Description: f.Description,
	}

	verr := &ValidationError{
		Email:  req.Email == "",
		Name:   req.Name == "",
		Amount: req.AmountCents <= 0,
	}
	if verr.Email || verr.Name || verr.Amount {
		return Request{}, verr
	}
	return req, nil
}

type Builder struct {
	endpoint   string
	httpClient *http.Client
}

func NewBuilder(endpoint string, httpClient *http.Client) *Builder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Builder{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// BuildAndSend sends one invoice request. Authentication and validation failures never reach the network.
// There is no retry and no idempotency key, so resubmitting after a lost response can duplicate the invoice.
func (b *Builder) BuildAndSend(ctx context.Context, form Form, tokens TokenSource) (*Receipt, error) {
	if tokens == nil {
		return nil, ErrUnauthenticated
	}
	token, err := tokens.Token(ctx)
	if err != nil || token == "" {
		return nil, ErrUnauthenticated
	}

	payload, err := form.Validate()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error encoding invoice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error building invoice request: %w", err)
	}
	req.Header.Set(config.HCType, config.CTypeJSON)
	req.Header.Set(config.HAuthorization, config.BearerPrefix+token)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		invoiceLogger.Error().Err(err).Str("endpoint", b.endpoint).Msg("Invoice request failed")
		return nil, &BillingError{Message: config.ErrInvoiceFailed, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &BillingError{Status: resp.StatusCode, Message: config.ErrInvoiceFailed, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var result struct {
			Error string `json:"error"`
		}
		msg := config.ErrInvoiceFailed
		if json.Unmarshal(data, &result) == nil && result.Error != "" {
			msg = result.Error
		}
		invoiceLogger.Warn().Int("status", resp.StatusCode).Str("message", msg).Msg("Billing endpoint rejected invoice")
		return nil, &BillingError{Status: resp.StatusCode, Message: msg}
	}

	var receipt Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, &BillingError{Status: resp.StatusCode, Message: config.ErrInvoiceFailed, Err: err}
	}

	invoiceLogger.Info().Str("invoice_id", receipt.InvoiceID).Int64("amount_cents", payload.AmountCents).Msg("Invoice sent")
	return &receipt, nil
}
