package main

import (
	"flag"
	"log"
	"os"

	"github.com/splashpos/backoffice/internal/config"
	"github.com/splashpos/backoffice/internal/migrations"
)

func main() {
	dir := flag.String("dir", "migrations", "Directory containing migration files")
	steps := flag.Int("steps", 0, "Number of migrations to roll back with 'down' (0 = all)")
	force := flag.Int("force", -1, "Force the schema version with 'force'")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg := config.Load()

	runner, err := migrations.Open(cfg.DatabaseURL, *dir)
	if err != nil {
		log.Fatalf("Failed to prepare migrations: %v", err)
	}
	defer func() {
		if err := runner.Close(); err != nil {
			log.Printf("ERROR: close migrator: %v", err)
		}
	}()

	switch cmd {
	case "up":
		err = runner.Up()
	case "down":
		err = runner.Down(*steps)
	case "force":
		if *force < 0 {
			log.Println("force requires -force=<version>")
			os.Exit(2)
		}
		err = runner.Force(*force)
	case "version":
	default:
		log.Printf("unknown command %q (want up, down, force or version)", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Migration %s failed: %v", cmd, err)
	}

	version, dirty, err := runner.Version()
	if err != nil {
		log.Fatalf("Failed to read version: %v", err)
	}
	log.Printf("Schema version %d (dirty=%t)", version, dirty)
}
