package main

import (
	"log"
	"os"

	"cv-chat-be/internal/migration"
	"cv-chat-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, os.Getenv("GO_ENV") == "production")
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Extensions, tables, constraints and the vector index
	log.Printf("Migrating %d tables...", len(migration.Models()))
	if err := migration.Run(db); err != nil {
		log.Fatalf("Error: Migration failed: %v", err)
	}

	log.Println("Success: Database migration completed.")
}
