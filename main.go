package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg := config.New()
	setupLogger(cfg)
	log.Info().Msg("Initializing app...")

	ctx := context.Background()

	if path := config.GetString(cfg, "SSM_PARAMETER_PATH", ""); path != "" {
		params, err := config.LoadSSMParameters(ctx, path, config.GetString(cfg, "AWS_REGION", ""))
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Error loading SSM parameters")
		}
		cfg = config.Merge(cfg, params)
		log.Info().Int("count", len(params)).Msg("Loaded SSM parameters")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(cfg, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, "./generated", os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(cfg, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if _, err := models.GenerateColumnMismatchReport(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}
	currentDB := database.New(db)
	defer currentDB.Close()

	identity, err := services.NewIdentity(currentDB,
		config.GetString(cfg, "JWT_SECRET", ""),
		config.GetDuration(cfg, "JWT_EXPIRES_IN", services.DefaultTokenTTL))
	if err != nil {
		fatalSetup(err, "identity")
	}
	if _, err := identity.SeedAdmin(ctx,
		config.GetString(cfg, "ADMIN_EMAIL", ""),
		config.GetString(cfg, "ADMIN_PASSWORD", ""),
		config.GetString(cfg, "ADMIN_NAME", "Admin")); err != nil {
		log.Fatal().Err(err).Msg("Error seeding admin user")
	}

	images, err := services.NewImageStoreFromConfig(ctx, cfg)
	if err != nil {
		fatalSetup(err, "image store")
	}

	dispatcher := services.NewDispatcher(services.NewNotifierFromConfig(cfg))

	// Buffered so the server goroutine can still report after shutdown.
	errChannel := make(chan error, 2)

	server, err := api.NewServer(currentDB,
		api.WithConfig(cfg),
		api.WithIdentity(identity),
		api.WithImageStore(images),
		api.WithDispatcher(dispatcher),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	dispatcher.Wait()
}

// setupLogger picks the log level from LOG_LEVEL and uses a console writer outside production.
func setupLogger(cfg map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(cfg, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(cfg, "APP_ENV", "development") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

// fatalSetup stops startup. Configuration problems point at the environment.
func fatalSetup(err error, component string) {
	if errs.IsConfigError(err) {
		log.Fatal().Err(err).Str("component", component).Msg("Invalid configuration, check the environment")
	}
	log.Fatal().Err(err).Str("component", component).Msg("Error initializing " + component)
}
