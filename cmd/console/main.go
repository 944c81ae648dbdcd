package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"radio-fleet-console/internal"
	"radio-fleet-console/internal/config"
)

func main() {
	// Load .env if present; real environments set the variables directly
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	srv := internal.NewServer(cfg)

	log.Println("Starting radio fleet console...")
	log.Printf("Store: %s", cfg.StoreURL)
	log.Printf("JWT Issuer: %s", cfg.JWTIssuer)
	log.Printf("JWT Audience: %s", cfg.JWTAudience)
	log.Printf("Listening on %s", cfg.ListenAddr)

	log.Fatal(http.ListenAndServe(cfg.ListenAddr, srv.Router))
}
