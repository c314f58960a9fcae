// migrator applies SQL migrations. Run: go run ./cmd/migrator -db-url=$DATABASE_URL
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var dbURL, migrationsPath string

	flag.StringVar(&dbURL, "db-url", os.Getenv("DATABASE_URL"), "postgres connection URL")
	flag.StringVar(&migrationsPath, "migrations-path", "./migrations", "path to migrations")
	flag.Parse()

	if dbURL == "" {
		log.Fatal("db-url is required (or set DATABASE_URL)")
	}

	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		log.Fatalf("open migrations: %v", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		log.Fatalf("apply migrations: %v", err)
	}

	fmt.Println("migrations applied successfully")
}
