package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/prepdeck/prepdeck/internal/config"
	"github.com/prepdeck/prepdeck/internal/review"
	"github.com/prepdeck/prepdeck/internal/storage"
	"github.com/prepdeck/prepdeck/internal/sync"
	"github.com/prepdeck/prepdeck/internal/web"
)

func main() {
	flags := pflag.NewFlagSet("prepdeck", pflag.ExitOnError)
	configPath := flags.String("config", "prepdeck.yaml", "Path to the YAML config file")
	flags.String("listen_addr", "", "Address for the HTTP server to listen on")
	flags.String("db_path", "", "Path to the SQLite database file")
	flags.String("repos_dir", "", "Directory for git question-bank checkouts")
	flags.Int("queue_limit", 0, "Default page size for the review queue")
	addSource := flags.String("add-source", "", "Register a question-bank source (path or git URL) and exit")
	runSync := flags.Bool("sync", false, "Sync all question-bank sources and exit")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	slog.Info("Database opened", "path", cfg.DBPath)

	if *addSource != "" {
		sourceType := sync.SourceType(*addSource)
		id, err := db.InsertSource(*addSource, sourceType)
		if err != nil {
			log.Fatalf("Failed to add source %s: %v", *addSource, err)
		}
		slog.Info("Source registered", "id", id, "type", sourceType, "path", *addSource)
		return
	}

	if *runSync {
		if err := sync.RunSync(db, cfg.ReposDir); err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		return
	}

	reviews := review.NewService(db)
	server := web.NewServer(db, reviews, cfg.ReposDir, cfg.QueueLimit)

	slog.Info("Starting server", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, server); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
