// Package config loads the environment table from SPEC_FULL §6. It follows
// the teacher's config.Load shape: godotenv.Load for a local .env file,
// getEnvOrDefault for optional settings, and fail-fast validation of the
// handful of genuinely required values (ConfigError maps to driver exit
// code 4, per spec.md §6/§7).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full ambient + domain configuration for one process. A
// single Config is loaded once at startup and passed by value/pointer into
// the components that need it; nothing here is mutated after Load.
type Config struct {
	ContactEmail   string
	UnpaywallEmail string

	HTTPCircuitFails  int
	HTTPCircuitReset  time.Duration

	MaxPDFBytes int64
	PDFMaxPages int
	PDFRetries  int

	ParaphraseThreshold float64
	ContradictionTolPct float64

	StrictMode            bool
	WriteDraftOnFail      bool
	GatesProfile          string
	TrustedDomains        []string
	LenientRecoveryOnFail bool

	ProviderCircuits map[string]ProviderCircuitConfig

	APIKeys map[string]string // TAVILY, BRAVE, SERPER, SERPAPI, FRED, NPS, ...
}

// ProviderCircuitConfig holds the per-provider circuit overrides named in
// SPEC_FULL §6 (OECD_*, IMF_*, ...).
type ProviderCircuitConfig struct {
	CooldownSeconds  int
	FailThreshold    int
	CacheTTLSeconds  int
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

// Load reads the process environment (optionally seeded from a local .env
// via godotenv) into a Config. It returns an error only for a missing
// CONTACT_EMAIL — every other upstream requires it in its identity header,
// so a run without one cannot proceed (driver maps this to exit code 4).
func Load() (*Config, error) {
	// Best-effort: a missing .env file is not an error, unlike the teacher's
	// Load which propagated it — most deployments of this core have no
	// .env at all and rely on the real environment.
	_ = godotenv.Load()

	contactEmail := os.Getenv("CONTACT_EMAIL")
	if contactEmail == "" {
		return nil, fmt.Errorf("CONTACT_EMAIL environment variable is required but not set")
	}

	cfg := &Config{
		ContactEmail:   contactEmail,
		UnpaywallEmail: getEnvOrDefault("UNPAYWALL_EMAIL", contactEmail),

		HTTPCircuitFails: getEnvInt("HTTP_CB_FAILS", 3),
		HTTPCircuitReset: time.Duration(getEnvInt("HTTP_CB_RESET", 900)) * time.Second,

		MaxPDFBytes: int64(getEnvInt("MAX_PDF_MB", 12)) * 1024 * 1024,
		PDFMaxPages: getEnvInt("PDF_MAX_PAGES", 6),
		PDFRetries:  getEnvInt("PDF_RETRIES", 3),

		ParaphraseThreshold: getEnvFloat("TRI_PARA_THRESHOLD", 0),
		ContradictionTolPct: getEnvFloat("TRI_CONTRA_TOL_PCT", 0.35),

		StrictMode:            getEnvBool("STRICT_MODE", false),
		WriteDraftOnFail:      getEnvBool("WRITE_DRAFT_ON_FAIL", true),
		GatesProfile:          getEnvOrDefault("GATES_PROFILE", "default"),
		LenientRecoveryOnFail: getEnvBool("LENIENT_RECOVERY_ON_FAIL", false),

		ProviderCircuits: map[string]ProviderCircuitConfig{
			"oecd": {
				CooldownSeconds: getEnvInt("OECD_CIRCUIT_COOLDOWN", 900),
				FailThreshold:   getEnvInt("OECD_CIRCUIT_THRESHOLD", 3),
				CacheTTLSeconds: getEnvInt("OECD_CACHE_TTL", 7*24*3600),
			},
			"imf": {
				CooldownSeconds: getEnvInt("IMF_CIRCUIT_COOLDOWN", 900),
				FailThreshold:   getEnvInt("IMF_CIRCUIT_THRESHOLD", 3),
				CacheTTLSeconds: getEnvInt("IMF_CACHE_TTL", 7*24*3600),
			},
		},

		APIKeys: map[string]string{
			"tavily":  os.Getenv("TAVILY_API_KEY"),
			"brave":   os.Getenv("BRAVE_API_KEY"),
			"serper":  os.Getenv("SERPER_API_KEY"),
			"serpapi": os.Getenv("SERPAPI_API_KEY"),
			"fred":    os.Getenv("FRED_API_KEY"),
			"nps":     os.Getenv("NPS_API_KEY"),
		},
	}

	if td := os.Getenv("TRUSTED_DOMAINS"); td != "" {
		cfg.TrustedDomains = splitCommaList(td)
	}

	return cfg, nil
}

func splitCommaList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				item := s[start:i]
				out = append(out, trimSpace(item))
			}
			start = i + 1
		}
	}
	return out
}

func trimSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}

// HasKey reports whether an API key is configured for a named paid
// provider, used by the router (C3) to gate paid-tier selection.
func (c *Config) HasKey(provider string) bool {
	return c.APIKeys[provider] != ""
}
