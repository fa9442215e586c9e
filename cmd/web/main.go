// Web server for go-blogleaf
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/joho/godotenv"

	"github.com/go-while/go-blogleaf/internal/config"
	"github.com/go-while/go-blogleaf/internal/database"
	"github.com/go-while/go-blogleaf/internal/web"
)

var (
	// command-line flags
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	dataPath    string
	pprofAddr   string
)

var Prof *prof.Profiler

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.IntVar(&webport, "webport", 0, "Web server port (overrides BLOG_PORT, default: 11990)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&dataPath, "data", "", "Path to the SQLite database file (overrides DATABASE_URL)")
	flag.StringVar(&pprofAddr, "pprof", "", "Listen address for the pprof web interface (e.g. :51111, default: disabled)")
	flag.Parse()

	// .env is optional; real environments set the variables directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WEB]: Warning: could not load .env file: %v", err)
	}

	mainConfig := config.NewDefaultConfig()
	if err := mainConfig.LoadFromEnv(); err != nil {
		log.Fatalf("[WEB]: Configuration error: %v", err)
	}

	// Override config with command-line flags if provided
	webConfig := &mainConfig.Web
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
	}
	if dataPath != "" {
		mainConfig.Database.MainDB = dataPath
	}

	if webConfig.ListenPort < 1024 || webConfig.ListenPort > 65535 {
		log.Fatalf("[WEB]: Invalid port number: %d (must be between 1024 and 65535)", webConfig.ListenPort)
	}

	if pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofAddr)
		log.Printf("[WEB]: pprof web interface listening on %s", pprofAddr)
	}

	log.Printf("Starting go-blogleaf web server (version: %s)", appVersion)

	dbConfig := database.DefaultDBConfig()
	dbConfig.MainDB = mainConfig.Database.MainDB
	db, err := database.OpenDatabase(dbConfig)
	if err != nil {
		log.Fatalf("[WEB]: Failed to initialize database: %v", err)
	}

	server := web.NewServer(db, webConfig)

	// Cross-platform signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	protocol := "http"
	if webConfig.SSL {
		protocol = "https"
	}
	log.Printf("[WEB]: Serving on %s://localhost:%d", protocol, server.GetPort())

	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			webServerErrChan <- err
		}
	}()

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		log.Fatalf("[WEB]: Failed to start web server: %v", err)
	}

	if err := db.Shutdown(); err != nil {
		log.Fatalf("[WEB]: Failed to shutdown database: %v", err)
	}
	log.Printf("[WEB]: Graceful shutdown completed")
} // end main
