package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/flightsync/booking-backend/internal/config"
	"github.com/flightsync/booking-backend/internal/database"
)

// Development helper that wipes all platform data. Refuses to run
// unless -confirm is passed.
func main() {
	var dbURLFlag string
	var confirm bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&confirm, "confirm", false, "required, confirms that all data should be destroyed")
	flag.Parse()

	if !confirm {
		log.Fatal("refusing to clear data without -confirm")
	}

	// Load .env from the working directory when present, so secrets
	// never have to be passed on the command line
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database. Truncating tables...")

	truncateSQL := `
TRUNCATE TABLE
    loyalty_transactions,
    reviews,
    payments,
    bookings,
    prices,
    flights,
    login_attempts,
    login_sessions,
    customers
RESTART IDENTITY CASCADE;`

	if _, err := db.Exec(truncateSQL); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	fmt.Println("All data cleared (tables truncated, identities reset).")

	tables := []string{
		"loyalty_transactions",
		"reviews",
		"payments",
		"bookings",
		"prices",
		"flights",
		"login_attempts",
		"login_sessions",
		"customers",
	}

	fmt.Println("Post-clear row counts:")
	for _, t := range tables {
		var count int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
