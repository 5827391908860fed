package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/config"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/auth"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/extractor"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/hub"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/inference"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/server"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/tokenizer"
)

const defaultInferenceTimeout = 30 * time.Second

// run is the entrypoint for the addrner server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring addrner: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting addrner server version %s", config.VersionString)

	config.SetLogLevel(cfg)
	appState := NewAppState(cfg)

	srv := server.Create(appState)
	setupSignalHandler(srv)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState struct from the config file / ENV, fetches
// model assets when missing, and wires the tokenizer, inference backend and
// decoding engine together. Everything in it is read-only after this returns.
func NewAppState(cfg *config.Config) *models.AppState {
	ctx := context.Background()

	if err := hub.EnsureAssets(ctx, cfg); err != nil {
		log.Fatalf("Failed to fetch model assets: %v", err)
	}

	labels, err := hub.LoadLabelSet(cfg.Model.Dir)
	if err != nil {
		log.Fatalf("Failed to load label set: %v", err)
	}

	wordpiece, err := tokenizer.NewWordPiece(
		filepath.Join(cfg.Model.Dir, hub.VocabFile),
		cfg.Model.Lowercase,
	)
	if err != nil {
		log.Fatalf("Failed to load tokenizer: %v", err)
	}

	timeout := defaultInferenceTimeout
	if cfg.Inference.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Inference.TimeoutSeconds) * time.Second
	}
	backend := inference.NewRemoteBackend(cfg.Inference.ServerURL, timeout)

	return &models.AppState{
		Extractor: extractor.NewExtractor(wordpiece, backend, labels, cfg.Model.MaxTokens),
		Config:    cfg,
	}
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		dumped, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			log.Fatalf("Error dumping config: %s", err)
		}
		fmt.Println(string(dumped))
		os.Exit(0)
	}
	if generateKey {
		fmt.Println(auth.GenerateJWT(cfg))
		os.Exit(0)
	}
}

// setupSignalHandler shuts the HTTP server down gracefully on termination
func setupSignalHandler(srv interface{ Shutdown(context.Context) error }) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}
		os.Exit(0)
	}()
}
