package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"talentflow-engine/internal/areas"
	"talentflow-engine/internal/config"
	"talentflow-engine/internal/events"
	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/httpapi"
	"talentflow-engine/internal/leadflow"
	"talentflow-engine/internal/notify"
	"talentflow-engine/internal/secrets"
	"talentflow-engine/internal/store"
	"talentflow-engine/internal/workflow"
)

func main() {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("TALENTFLOW_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would fight over sqlite.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("instance lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running in %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, vres := config.NormalizeAndValidate(cfg)
	for _, wmsg := range vres.Warnings {
		log.Printf("level=warn msg=%q", wmsg)
	}
	if !vres.OK() {
		for _, emsg := range vres.Errors {
			log.Printf("level=error msg=%q", emsg)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "talentflow.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	areasPath := cfg.Areas.File
	resolver, err := areas.Load(areasPath)
	if err != nil {
		log.Fatalf("areas load failed (%s): %v", areasPath, err)
	}
	log.Printf("areas loaded: %v", resolver.Areas())

	apiKey, err := secrets.GetMailAPIKey(cfg.Mail.KeyringAccount)
	if err != nil {
		log.Printf("level=warn msg=\"mail api key unavailable\" err=%v", err)
	}

	hub := events.NewHub()
	mailer := notify.NewService(db, cfg, apiKey)
	validate := hireerr.NewValidator()

	leads := &leadflow.Manager{
		DB: db, Notify: mailer, Hub: hub, Validate: validate,
		BaseURL: cfg.App.BaseURL,
	}
	flow := &workflow.Engine{
		DB: db, Areas: resolver, Notify: mailer, Hub: hub, Validate: validate,
		BaseURL: cfg.App.BaseURL,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := &notify.Worker{
		DB:       db,
		Service:  mailer,
		Interval: time.Duration(cfg.Worker.RetrySeconds) * time.Second,
		Batch:    cfg.Worker.Batch,
	}
	go worker.Run(ctx)

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db,
		Hub:         hub,
		Leads:       leads,
		Flow:        flow,
		Areas:       resolver,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		AdminToken:  cfg.App.AdminToken,
		RatePerMin:  cfg.Intake.PublicRatePerMin,
		RateBurst:   cfg.Intake.Burst,
		MaxUploadMB: cfg.Intake.MaxUploadMB,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover,
			httpapi.AccessLog,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Printf("engine stopped")
}
