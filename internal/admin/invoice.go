package admin

import (
	"errors"
	"net/http"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/identity"
	"github.com/debemdeboas/denuo-web/internal/invoice"
	"github.com/rs/zerolog"
)

func (h *Handler) serveInvoice(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	if h.invoices == nil {
		h.status(w, r, config.ErrBillingNotConfigured, true)
		return
	}

	var tokens invoice.TokenSource
	if s, ok := identity.SessionFromContext(r.Context()); ok {
		tokens = invoice.StaticToken(s.Token)
	}

	form := invoice.Form{
		Email:       r.FormValue("email"),
		Name:        r.FormValue("name"),
		AmountUSD:   r.FormValue("amount"),
		Description: r.FormValue("description"),
	}

	receipt, err := h.invoices.BuildAndSend(r.Context(), form, tokens)

	var validationErr *invoice.ValidationError
	var billingErr *invoice.BillingError
	switch {
	case err == nil:
		log.Info().Str("invoice_id", receipt.InvoiceID).Msg("Invoice sent")
		w.Header().Set(config.HHxTrigger, "invoiceSent")
		h.statusf(w, r, false, config.StatusInvoiceSentFmt, receipt.HostedInvoiceURL)
	case errors.Is(err, invoice.ErrUnauthenticated):
		h.status(w, r, config.StatusInvoiceAuth, true)
	case errors.As(err, &validationErr):
		h.status(w, r, config.StatusInvoiceInvalid, true)
	case errors.As(err, &billingErr):
		log.Warn().Err(err).Msg("Invoice failed")
		h.statusf(w, r, true, config.StatusInvoiceFailedFmt, billingErr.Message)
	default:
		log.Error().Err(err).Msg("Invoice failed")
		h.statusf(w, r, true, config.StatusInvoiceFailedFmt, config.ErrInvoiceFailed)
	}
}
