package main

import (
	"fmt"
	"os"
	"strconv"

	"codeberg.org/vyra/server/internal/database"
	"codeberg.org/vyra/server/internal/logger"
	"github.com/joho/godotenv"
)

func usage() {
	fmt.Println("Usage: migrate <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  up         - apply all pending migrations")
	fmt.Println("  down <n>   - roll back n migrations")
	fmt.Println("  force <v>  - mark version v as applied without running it")
	fmt.Println("  version    - print the current schema version")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	command := os.Args[1]

	// the server's full config is not needed here, only the database
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL environment variable is required")
	}

	migrator, err := database.NewMigrator(databaseURL)
	if err != nil {
		logger.Fatal("failed to create migrator", "error", err)
	}
	defer migrator.Close() //nolint:errcheck // best-effort cleanup

	switch command {
	case "up":
		err = migrator.Up()

	case "down":
		err = migrator.Down(intArg())

	case "force":
		err = migrator.Force(intArg())

	case "version":
		var (
			version uint
			dirty   bool
		)

		version, dirty, err = migrator.Version()
		if err == nil {
			fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		}

	default:
		usage()
	}

	if err != nil {
		migrator.Close() //nolint:errcheck,gosec // logger.Fatal skips deferred calls
		logger.Fatal("migration command failed", "command", command, "error", err)
	}
}

// reads the numeric argument following the command
func intArg() int {
	if len(os.Args) < 3 {
		usage()
	}

	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		logger.Fatal("argument must be an integer", "value", os.Args[2])
	}

	return n
}
