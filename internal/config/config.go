package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	LogDevelopment bool

	DemandURL         string
	DemandHeadless    bool
	DemandNavTimeout  time.Duration
	DemandSettle      time.Duration
	DemandMinInterval time.Duration
	DemandUserAgent   string

	NoticesCSVURL    string
	NoticesTimeoutMs int
	NoticesRetries   int

	ReportFontPath  string
	ReportSourceURL string
	ReportTablesURL string

	AliasSuggestThreshold float64
	QRBoxSize             int
}

const (
	DefaultDemandURL  = "https://vestibular.fatec.sp.gov.br/demanda/"
	DefaultNoticesURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSPxryxjiyOz0bW5AIaB45RrgU-mp9O-bCFWWa9NIsu8f-80FZEz-dUKIR6fZ9qeGBW83clfV3-L_zF/pub?gid=0&single=true&output=csv"
	DefaultUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultSourceURL  = "https://cesu.cps.sp.gov.br/editaisabertos/"
	DefaultTablesURL  = "https://cesu.cps.sp.gov.br/diretrizes-para-alteracao-de-carga-horaria-docente-concurso-publico-pss/"
)

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "fatec.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		LogDevelopment: getEnvBool("LOG_DEVELOPMENT", true),

		DemandURL:         getEnv("DEMAND_URL", DefaultDemandURL),
		DemandHeadless:    getEnvBool("DEMAND_HEADLESS", true),
		DemandNavTimeout:  time.Duration(getEnvInt("DEMAND_NAV_TIMEOUT_SEC", 30)) * time.Second,
		DemandSettle:      time.Duration(getEnvInt("DEMAND_SETTLE_MS", 2000)) * time.Millisecond,
		DemandMinInterval: time.Duration(getEnvInt("DEMAND_MIN_INTERVAL_MS", 500)) * time.Millisecond,
		DemandUserAgent:   getEnv("DEMAND_USER_AGENT", DefaultUserAgent),

		NoticesCSVURL:    getEnv("NOTICES_CSV_URL", DefaultNoticesURL),
		NoticesTimeoutMs: getEnvInt("NOTICES_TIMEOUT_MS", 30000),
		NoticesRetries:   getEnvInt("NOTICES_RETRIES", 3),

		ReportFontPath:  getEnv("REPORT_FONT_PATH", ""),
		ReportSourceURL: getEnv("REPORT_SOURCE_URL", DefaultSourceURL),
		ReportTablesURL: getEnv("REPORT_TABLES_URL", DefaultTablesURL),

		AliasSuggestThreshold: getEnvFloat("ALIAS_SUGGEST_THRESHOLD", 0.85),
		QRBoxSize:             getEnvInt("QR_BOX_SIZE", 5),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(getEnv(key, ""))) {
	case "1", "true", "yes", "on", "sim":
		return true
	case "0", "false", "no", "off", "nao", "não":
		return false
	}
	return fallback
}
