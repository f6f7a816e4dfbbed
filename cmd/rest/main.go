package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cv-chat-be/internal/bootstrap"
	"cv-chat-be/internal/config"
	"cv-chat-be/internal/migration"
	"cv-chat-be/internal/pkg/logger"
	"cv-chat-be/internal/server"
	"cv-chat-be/internal/tracer"
	"cv-chat-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	isProd := cfg.App.Environment == "production"

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, isProd)
	defer sysLogger.Sync()

	// The pool is opened here, so a missing DSN or a vector width the schema
	// cannot hold stops the boot instead of failing per request.
	if missing := cfg.MissingStoreCredentials(); len(missing) > 0 {
		log.Fatalf("Error: %v is not set", missing)
	}
	if err := migration.CheckEmbeddingDimensions(cfg.Ai.EmbeddingDimensions); err != nil {
		log.Fatalf("Error: %v", err)
	}

	if missing := cfg.MissingGenerationCredentials(); len(missing) > 0 {
		sysLogger.Warn("BOOT", "Generation credentials missing, chat requests will fail", map[string]interface{}{"missing": missing})
	}
	if missing := cfg.MissingEmbeddingCredentials(); len(missing) > 0 && cfg.Rag.Mode != config.ChatModeHistory {
		sysLogger.Warn("BOOT", "Embedding credentials missing, chat requests will fail", map[string]interface{}{"missing": missing})
	}

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, isProd)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg, sysLogger)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
