package config

const (
	LightAppearance string = "light"
	DarkAppearance  string = "dark"

	LightThemeIcon string = `<i class="fas fa-sun"></i>`
	DarkThemeIcon  string = `<i class="fas fa-moon"></i>`
)
