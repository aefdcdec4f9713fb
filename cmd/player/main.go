package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/Huy11042003/IELTS-WEB/internal/api/http"
	"github.com/Huy11042003/IELTS-WEB/internal/catalog"
	"github.com/Huy11042003/IELTS-WEB/internal/config"
	"github.com/Huy11042003/IELTS-WEB/internal/db"
	"github.com/Huy11042003/IELTS-WEB/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	kv := store.NewSQLKV(dbh)

	// --- Test data ---
	cat := catalog.Load(cfg.CatalogPath)
	var bank catalog.Bank
	switch cfg.QuestionBank {
	case config.BankBulk:
		bank = catalog.LoadBulk(cfg.QuestionPath)
	default:
		bank = catalog.NewDirBank(cfg.QuestionPath)
	}

	bs, err := store.NewFSStore(cfg.PDFBasePath)
	if err != nil {
		log.Fatalf("pdf store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	hub := api.NewHub(cat, bank, kv, cfg.ReviewPath)
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/tests", api.ListTestsHandler(cat))
		ar.Get("/tests/{testID}", api.GetTestHandler(bank))
		ar.Get("/tests/{testID}/html", api.GetTestHTMLHandler(bank))
		hub.Mount(ar)
	})

	r.Route("/pdf", func(pr chi.Router) {
		api.MountPDF(pr, bs)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s, bank=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.QuestionBank)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
