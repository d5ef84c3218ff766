package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xiaobei/subhub/internal/api"
	"github.com/xiaobei/subhub/internal/logger"
	"github.com/xiaobei/subhub/internal/storage"
)

var (
	version = "0.3.1"
	dataDir string
	port    int
)

func init() {
	// Get default data directory
	homeDir, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(homeDir, ".subhub")

	flag.StringVar(&dataDir, "data", defaultDataDir, "Data directory")
	flag.IntVar(&port, "port", 9090, "Web service port")
}

func main() {
	flag.Parse()

	var err error
	dataDir, err = filepath.Abs(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get absolute path: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging system
	if err := logger.InitLogManager(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging system: %v\n", err)
		os.Exit(1)
	}

	// Print startup information
	logger.Printf("subhub v%s", version)
	logger.Printf("Data directory: %s", dataDir)
	logger.Printf("Web port: %d", port)

	// Initialize storage (SQLite)
	store, err := storage.NewSQLiteStore(dataDir)
	if err != nil {
		logger.Printf("Failed to initialize storage: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	// Create API server
	server := api.NewServer(store, port, version)

	// Start traffic refresh scheduler
	server.StartScheduler()

	// Start service
	addr := fmt.Sprintf(":%d", port)
	logger.Printf("Starting Web service: http://0.0.0.0%s", addr)

	if err := server.Run(addr); err != nil {
		logger.Printf("Failed to start service: %v", err)
		os.Exit(1)
	}
}
