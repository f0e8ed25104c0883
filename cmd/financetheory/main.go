package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/financetheory/api/internal/api"
	"github.com/financetheory/api/internal/auth"
	"github.com/financetheory/api/internal/extract"
	"github.com/financetheory/api/internal/finance"
	"github.com/financetheory/api/internal/ocr"
	"github.com/financetheory/api/internal/storage"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Local deployments keep their provider keys in .env.
	_ = godotenv.Load()

	fs := ff.NewFlagSet("financetheory")
	var (
		port         = fs.IntLong("port", 8080, "HTTP server port")
		storeKind    = fs.StringLong("store", "bolt", "Transaction store: 'bolt' or 'postgres'")
		boltPath     = fs.StringLong("db", "financetheory.db", "Bolt database file path")
		databaseURL  = fs.StringLong("database-url", "", "Postgres DSN (required for --store postgres)")
		storageKind  = fs.StringLong("receipt-storage", "local", "Receipt file storage: 'local', 'supabase' or 'none'")
		storagePath  = fs.StringLong("receipt-path", "./receipts", "Local receipt storage directory")
		supabaseURL  = fs.StringLong("supabase-url", "", "Supabase project URL (auth and bucket storage)")
		anonKey      = fs.StringLong("supabase-anon-key", "", "Supabase anon key for token verification")
		serviceKey   = fs.StringLong("supabase-service-key", "", "Supabase service key for bucket uploads")
		bucket       = fs.StringLong("receipt-bucket", "receipts", "Storage bucket name")
		ocrProvider  = fs.StringLong("ocr-provider", ocr.ProviderLocalEngine, "Default OCR provider: 'local-engine', 'cloud-vision' or 'gemini'")
		ocrLanguages = fs.StringLong("ocr-languages", "ind+eng", "Tesseract languages")
		visionKey    = fs.StringLong("vision-key", "", "Google Vision API key (or VISION_API_KEY env var)")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or GEMINI_API_KEY env var)")
		geminiModel  = fs.StringLong("gemini-model", "gemini-2.5-flash", "Gemini model name")
		requireAuth  = fs.BoolLong("require-auth", "Verify bearer tokens with the auth provider")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("FINANCETHEORY"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Transaction store.
	var store finance.Store
	var err error
	switch *storeKind {
	case "bolt":
		slog.Info("Opening bolt store", "path", *boltPath)
		store, err = finance.NewBoltStore(*boltPath)
	case "postgres":
		if *databaseURL == "" {
			*databaseURL = os.Getenv("DATABASE_URL")
		}
		if *databaseURL == "" {
			slog.Error("Postgres store requires --database-url or DATABASE_URL")
			os.Exit(1)
		}
		slog.Info("Connecting to postgres")
		store, err = finance.NewPostgresStore(*databaseURL)
	default:
		slog.Error("Invalid store", "store", *storeKind, "valid", "bolt or postgres")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	financeSvc := finance.NewService(store)
	if err := financeSvc.EnsureDefaultCategories(); err != nil {
		slog.Error("Failed to seed default categories", "error", err)
		os.Exit(1)
	}

	// OCR engines. Only configured providers register; requesting an
	// unregistered one fails with a provider-unavailable result.
	gateway := ocr.NewGateway(*ocrProvider)
	defer gateway.Close()

	if tess, err := ocr.NewTesseract(*ocrLanguages); err != nil {
		slog.Warn("Local OCR engine unavailable", "error", err)
	} else {
		gateway.Register(ocr.ProviderLocalEngine, tess)
	}

	if key := firstNonEmpty(*visionKey, os.Getenv("VISION_API_KEY")); key != "" {
		vision, err := ocr.NewVision(key, "")
		if err != nil {
			slog.Error("Failed to initialize cloud vision", "error", err)
			os.Exit(1)
		}
		gateway.Register(ocr.ProviderCloudVision, vision)
	}

	if key := firstNonEmpty(*geminiKey, os.Getenv("GEMINI_API_KEY")); key != "" {
		gemini, err := ocr.NewGemini(key, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize gemini", "error", err)
			os.Exit(1)
		}
		gateway.Register(ocr.ProviderGemini, gemini)
	}

	parser := extract.NewParser(gateway)

	// Receipt file storage.
	var receiptStore storage.Storage
	switch *storageKind {
	case "local":
		receiptStore, err = storage.NewLocal(*storagePath)
		if err != nil {
			slog.Error("Failed to initialize receipt storage", "error", err)
			os.Exit(1)
		}
	case "supabase":
		receiptStore, err = storage.NewSupabase(*supabaseURL, *serviceKey, *bucket)
		if err != nil {
			slog.Error("Failed to initialize receipt storage", "error", err)
			os.Exit(1)
		}
	case "none":
		receiptStore = nil
	default:
		slog.Error("Invalid receipt storage", "storage", *storageKind, "valid", "local, supabase or none")
		os.Exit(1)
	}

	// Token verification; without it the server runs in single-user
	// local mode.
	var verifier auth.Verifier
	if *requireAuth {
		verifier, err = auth.NewSupabase(*supabaseURL, *anonKey)
		if err != nil {
			slog.Error("Failed to initialize auth verifier", "error", err)
			os.Exit(1)
		}
	}

	server := api.NewServer(financeSvc, parser, gateway, receiptStore, verifier)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version, "ocr_provider", *ocrProvider)
	if verifier == nil {
		slog.Info("Auth disabled, running in local mode")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
