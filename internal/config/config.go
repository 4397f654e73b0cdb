package config

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	Theme    ThemeConfig    `yaml:"theme"`
	Language LanguageConfig `yaml:"language"`
	Store    StoreConfig    `yaml:"store"`
	Auth     AuthConfig     `yaml:"auth"`
	Editor   EditorConfig   `yaml:"editor"`
	Billing  BillingConfig  `yaml:"billing"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
}

type SiteConfig struct {
	Name        string `yaml:"name" default:"Denuo Web"`
	Description string `yaml:"description" default:"Websites and internal tools that ship on time"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"12600"`
}

type ThemeConfig struct {
	Appearance      string `yaml:"appearance" default:"dark"`
	AccentColor     string `yaml:"accent_color" default:"jade"`
	GrayColor       string `yaml:"gray_color" default:"auto"`
	PanelBackground string `yaml:"panel_background" default:"translucent"`
	Radius          string `yaml:"radius" default:"large"`
	Scaling         string `yaml:"scaling" default:"100%"`
}

type LanguageConfig struct {
	Default   string   `yaml:"default" default:"en"`
	Supported []string `yaml:"supported" default:"en,ja"`
}

type StoreConfig struct {
	Backend      string   `yaml:"backend" default:"sqlite"`
	DocumentKey  string   `yaml:"document_key" default:"siteContent/public"`
	PollInterval Duration `yaml:"poll_interval" default:"10s"`

	SQLite   SQLiteConfig   `yaml:"sqlite"`
	S3       S3Config       `yaml:"s3"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" default:"./database.db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket" default:"denuo-content"`
	Prefix   string `yaml:"prefix" default:"documents/"`
	Endpoint string `yaml:"endpoint" default:""`
	Region   string `yaml:"region" default:"auto"`
}

type RedisConfig struct {
	// Overridden by REDIS_URL.
	URL       string `yaml:"url" default:"redis://localhost:6379/0"`
	KeyPrefix string `yaml:"key_prefix" default:"denuo:doc:"`
}

type PostgresConfig struct {
	// Overridden by DATABASE_URL.
	URL     string `yaml:"url" default:"postgres://localhost:5432/denuo"`
	Channel string `yaml:"channel" default:"denuo_documents"`
}

type AuthConfig struct {
	Type       string   `yaml:"type" default:"password"`
	SessionTTL Duration `yaml:"session_ttl" default:"12h"`
	// Clerk user IDs allowed into the admin shell. Required for the clerk provider; empty denies everyone.
	AdminUsers []string `yaml:"admin_users" default:""`
	// SignInURL is Clerk's hosted sign-in page, linked from the admin login screen.
	SignInURL string `yaml:"sign_in_url" default:""`
}

type EditorConfig struct {
	// SyncPolicy decides what an upstream change does to a draft with unsaved edits.
	SyncPolicy string `yaml:"sync_policy" default:"overwrite"`
}

type BillingConfig struct {
	Enabled      bool   `yaml:"enabled" default:"true"`
	Endpoint     string `yaml:"endpoint" default:"http://127.0.0.1:12600/api/billing/invoice"`
	StripeAPI    string `yaml:"stripe_api" default:"https://api.stripe.com"`
	Currency     string `yaml:"currency" default:"usd"`
	DaysUntilDue int    `yaml:"days_until_due" default:"14"`
}

// Duration decodes "10s"-style YAML scalars.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

var AppConfig *Config

var (
	storeBackends = []string{"memory", "sqlite", "s3", "redis", "postgres"}
	authTypes     = []string{"password", "clerk"}
	syncPolicies  = []string{"overwrite", "hold"}
)

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	// Try to read and parse the config file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		AppConfig = config
		return nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return err
	}

	AppConfig = config
	return nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if !slices.Contains(storeBackends, c.Store.Backend) {
		return fmt.Errorf("unsupported store backend %q (want one of %s)", c.Store.Backend, strings.Join(storeBackends, ", "))
	}
	if !slices.Contains(authTypes, c.Auth.Type) {
		return fmt.Errorf("unsupported auth type %q (want one of %s)", c.Auth.Type, strings.Join(authTypes, ", "))
	}
	if !slices.Contains(syncPolicies, c.Editor.SyncPolicy) {
		return fmt.Errorf("unsupported sync policy %q (want one of %s)", c.Editor.SyncPolicy, strings.Join(syncPolicies, ", "))
	}
	if c.Auth.Type == "clerk" && len(c.Auth.AdminUsers) == 0 {
		return fmt.Errorf("auth.admin_users must list at least one Clerk user id when auth.type is clerk")
	}
	if c.Store.DocumentKey == "" {
		return fmt.Errorf("store.document_key must not be empty")
	}
	if c.Store.PollInterval.Duration <= 0 {
		return fmt.Errorf("store.poll_interval must be positive")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(Duration{})

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		defaultValue := fieldType.Tag.Get("default")

		if field.Type() == durationType {
			if d, err := time.ParseDuration(defaultValue); err == nil {
				field.Set(reflect.ValueOf(Duration{d}))
			}
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
