package main

import (
	"flag"
	"log"

	"ripple-chat/config"
	"ripple-chat/pkg/database"
)

func main() {
	seed := flag.Bool("seed", false, "seed demo profiles and a conversation after migrating")
	migrationsDir := flag.String("migrations", "migrations", "directory with raw .sql migrations")
	flag.Parse()

	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.ApplyRawMigrations(db, *migrationsDir); err != nil {
		log.Fatalf("Failed to apply raw migrations: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to apply GORM migrations: %v", err)
	}

	log.Println("Migrations applied")

	if *seed {
		if _, err := database.Seed(db, database.DefaultSeedConfig()); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}
}
