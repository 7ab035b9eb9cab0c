package main

import (
	"database/sql"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-booking/internal/config"
	"ms-booking/internal/database/migrations"
)

// Migration tool: applies the schema (and optionally seed data) to the
// configured database, or rolls everything back with -down.
func main() {
	seed := flag.Bool("seed", false, "also run seed data migrations")
	down := flag.Bool("down", false, "roll back all migrations")
	dir := flag.String("dir", "./migrations", "migrations directory")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN()))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.Ping(); err != nil {
		log.Fatalf("❌ Failed to connect to Postgres: %v", err)
	}
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
		MigrationsDir: *dir,
		AutoMigrate:   true,
		SeedData:      *seed,
	})
	defer runner.Close()

	if *down {
		log.Println("Rolling back all migrations...")
		if err := runner.MigrateDown(); err != nil {
			log.Fatalf("❌ Migration down failed: %v", err)
		}
		log.Println("✅ Rollback complete.")
		return
	}

	if err := runner.RunMigrations(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Done.")
}
