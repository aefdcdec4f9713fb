package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Bank shapes for question resolution.
const (
	BankDir  = "dir"  // per-test files fetched on demand
	BankBulk = "bulk" // one metadata document loaded up front
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	CatalogPath  string // the pdf-list.json document
	QuestionBank string // dir|bulk
	QuestionPath string // directory (dir) or document path (bulk)
	PDFBasePath  string // base dir the document viewer is served from

	ReviewPath string // review page the submit flow hands off to

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		CatalogPath:        envOr("CATALOG_PATH", "./pdf-list.json"),
		QuestionBank:       envOr("QUESTION_BANK", BankDir),
		QuestionPath:       envOr("QUESTION_PATH", "./questions"),
		PDFBasePath:        envOr("PDF_BASE_PATH", "./pdf"),
		ReviewPath:         envOr("REVIEW_PATH", "/review.html"),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://reading.example.com"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:8080"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
