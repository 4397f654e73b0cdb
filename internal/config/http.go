package config

const (
	HCType         = "Content-Type"
	HETag          = "ETag"
	HCacheControl  = "Cache-Control"
	HAuthorization = "Authorization"
	HHxRedirect    = "Hx-Redirect"
	HHxRefresh     = "Hx-Refresh"
	HHxTrigger     = "Hx-Trigger"
	HDraftState    = "X-Draft-State"
	HSaving        = "X-Saving"
	BearerPrefix   = "Bearer "

	CTypeHTML = "text/html"
	CTypeJSON = "application/json"
	CTypeForm = "application/x-www-form-urlencoded"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieTheme    = "denuo-theme"
	CookieLanguage = "denuo-language"
	CookieSession  = "denuo_session"
)
