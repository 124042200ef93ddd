package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trattoria/internal/api"
	"trattoria/internal/config"
	"trattoria/internal/menu"
	"trattoria/internal/monitoring"
	"trattoria/internal/providers"
	"trattoria/internal/session"
	"trattoria/internal/storage"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	menuFile   = flag.String("menu", "", "Path to the menu definition (overrides config)")
	addr       = flag.String("addr", "", "Listen address (overrides config)")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *menuFile != "" {
		cfg.Menu.Path = *menuFile
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	catalog, err := menu.LoadFile(cfg.Menu.Path)
	if err != nil {
		log.Fatalf("Failed to load menu: %v", err)
	}
	log.Printf("Loaded menu for %s: %d items in %d sections",
		catalog.RestaurantName(), catalog.Len(), len(catalog.Sections()))

	provider := initializeProvider(cfg)

	secret := config.SessionSecret()
	if secret == "" {
		secret = randomSecret()
		log.Printf("SESSION_SECRET not set, using an ephemeral secret")
	}

	sessions := session.NewManager(catalog, provider, cfg.Tuning, secret, cfg.Session.TTL.Std())
	monitor := monitoring.NewMonitor()

	var transcripts *storage.TranscriptStore
	if cfg.Transcripts.Enabled {
		transcripts, err = storage.Open(cfg.Transcripts.Path)
		if err != nil {
			log.Fatalf("Failed to open transcript store: %v", err)
		}
		defer transcripts.Close()
		log.Printf("Transcript audit trail enabled at %s", cfg.Transcripts.Path)
	}

	srv := api.NewServer(sessions, catalog, monitor, transcripts)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting waiter service on %s", cfg.Server.Addr)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeProvider builds the LLM provider. Without an API key the
// service runs with deterministic replies only.
func initializeProvider(cfg config.Config) providers.Provider {
	apiKey := config.APIKey()
	if apiKey == "" {
		log.Printf("OPENAI_API_KEY not set, running without an LLM provider")
		return nil
	}

	provider, err := providers.NewOpenAIProvider(providers.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: cfg.Provider.BaseURL,
		Model:   cfg.Provider.Model,
		Timeout: cfg.Provider.Timeout.Std(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}
	return provider
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate session secret: %v", err)
	}
	return hex.EncodeToString(buf)
}
