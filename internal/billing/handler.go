package billing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/identity"
	"github.com/debemdeboas/denuo-web/internal/invoice"
	"github.com/rs/zerolog"
)

// Handler serves POST /api/billing/invoice. It must sit behind the identity middleware.
type Handler struct {
	client       Client
	currency     string
	daysUntilDue int
}

func NewHandler(client Client, cfg config.BillingConfig) *Handler {
	return &Handler{
		client:       client,
		currency:     cfg.Currency,
		daysUntilDue: cfg.DaysUntilDue,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, config.HTTPErrMethodNotAllowed)
		return
	}

	session, ok := identity.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, config.ErrUnauthorized)
		return
	}

	var req invoice.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, config.ErrInvalidJSON)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, config.StatusInvoiceInvalid)
		return
	}

	inv, err := h.client.SendInvoice(r.Context(), InvoiceParams{
		Email:        req.Email,
		Name:         req.Name,
		Description:  req.Description,
		AmountCents:  req.AmountCents,
		Currency:     h.currency,
		DaysUntilDue: h.daysUntilDue,
	})
	if errors.Is(err, ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, config.ErrBillingNotConfigured)
		return
	}
	if err != nil {
		l.Error().Err(err).Str("user_id", string(session.UserID)).Msg("Failed to send invoice")

		msg := config.ErrInvoiceFailed
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		writeError(w, http.StatusBadGateway, msg)
		return
	}

	l.Info().Str("user_id", string(session.UserID)).Str("invoice_id", inv.ID).Msg("Invoice sent")
	writeJSON(w, http.StatusOK, invoice.Receipt{
		HostedInvoiceURL: inv.HostedInvoiceURL,
		InvoiceID:        inv.ID,
	})
}
