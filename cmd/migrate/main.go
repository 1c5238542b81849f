package main

import (
	"membership_system/internal/config" // Custom import path (Config)
	"membership_system/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Apply the schema against the configured database
}
