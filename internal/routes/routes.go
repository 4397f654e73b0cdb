// Package routes defines HTTP route constants for the application.
package routes

const (
	RootPath   = "/"
	RobotsPath = "/robots.txt"

	ThemeToggle    = "/theme/toggle"
	LanguageToggle = "/language/toggle"

	// SSE
	SSEPath = "/sse"

	// Admin shell
	Admin             = "/admin"
	AdminLogin        = "/admin/login"
	AdminLogout       = "/admin/logout"
	AdminDraftHero    = "/admin/draft/hero"
	AdminDraftContact = "/admin/draft/contact"
	AdminDraftDiffs   = "/admin/draft/differentiators"
	AdminDraftService = "/admin/draft/services/{index}"
	AdminDraftProject = "/admin/draft/projects/{index}"
	AdminDraftStep    = "/admin/draft/process/{index}"
	AdminAddService   = "/admin/draft/services"
	AdminAddProject   = "/admin/draft/projects"
	AdminDraftSync    = "/admin/draft/sync"
	AdminSave         = "/admin/save"
	AdminInvoice      = "/admin/invoice"

	// API
	APIBillingInvoice = "/api/billing/invoice"
)
