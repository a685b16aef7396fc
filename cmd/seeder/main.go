package main

import (
	"flag"
	"fmt"
	"os"

	"orbit-hr-backend/config"
	"orbit-hr-backend/internal/database"
	"orbit-hr-backend/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	fmt.Println("Starting database seeding...")

	// separate binary, so load .env here too
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env not found, using system environment variables.")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.Log)

	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	fmt.Println("Running SeedAll...")
	if err := database.SeedAll(db, config.GetEnv("SEED_PASSWORD", "Admin12345")); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}

	fmt.Println("Seeding finished!")
}
