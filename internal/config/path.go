package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticURLPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout   = "layout.html"
	TemplateIndex    = "index.html"
	TemplateAdmin    = "admin.html"
	TemplateLogin    = "login.html"
	TemplatePartials = "partials.html"

	// Named templates inside partials.html
	TemplateStatus     = "status"
	TemplateDraftState = "draft-state"
)
