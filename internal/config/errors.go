package config

const (
	// Store errors
	ErrLoadContentFmt = "Failed to load content: %v"
	ErrOpenStoreFmt   = "Failed to open document store: %v"

	// Auth errors
	ErrCreateProviderFmt = "Failed to create provider: %v"
	ErrUnauthorized      = "Unauthorized"

	// Billing errors
	ErrBillingNotConfigured = "Billing is not configured"
	ErrInvoiceFailed        = "Invoice failed"
	ErrInvalidJSON          = "Invalid JSON body"
)

// Operator-facing status lines shown inline in the admin shell.
const (
	StatusSignedIn         = "Signed in."
	StatusSignedOut        = "Signed out."
	StatusSignInFailed     = "Unable to sign in. Check credentials."
	StatusSaved            = "Content saved."
	StatusSaveFailedFmt    = "Save failed: %v"
	StatusSyncedUpstream   = "Loaded the latest published content."
	StatusInvoiceAuth      = "Sign in as admin to send invoices."
	StatusInvoiceInvalid   = "Email, name, and a positive amount are required."
	StatusInvoiceSentFmt   = "Invoice sent. URL: %s"
	StatusInvoiceFailedFmt = "Invoice failed: %s"
)
