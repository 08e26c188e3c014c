package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/masjidops/fahs/config"
	"github.com/masjidops/fahs/handlers"
	"github.com/masjidops/fahs/logger"
	"github.com/masjidops/fahs/routes"
	"github.com/masjidops/fahs/storage"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {

	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	logger.Init(os.Getenv("LOG_LEVEL"))

	config.Connect()

	// Run migrations
	if err := config.Migrations(config.DB); err != nil {
		logger.Log.Fatalf("could not run migrations: %v", err)
	}

	// Seed the inspection catalog (skips if data already exists)
	if err := config.SeedCatalog(config.DB); err != nil {
		logger.Log.Warnf("catalog seeding encountered issues: %v", err)
	}

	store, err := storage.FromEnv()
	if err != nil {
		logger.Log.Fatalf("could not initialize object storage: %v", err)
	}
	handlers.SetStorage(store)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := routes.RegisterRoutes()
	handlerWithCORS := enableCORS(handler)
	logger.Log.Infoln("Server starting at port", port)
	logger.Log.Fatal(http.ListenAndServe(":"+port, handlerWithCORS))
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Required CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		// Handle preflight (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
