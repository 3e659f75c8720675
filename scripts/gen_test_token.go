package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"codeberg.org/vyra/server/internal/auth"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	userID := flag.String("user", "", "user id to issue the token for (random when empty)")
	email := flag.String("email", "test@vyra.dev", "email claim")
	flag.Parse()

	// load environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	if *userID == "" {
		*userID = uuid.NewString()
	}

	// the users row is created on the first committed generation
	token, err := auth.New(secret).GenerateJWT(*userID, *email)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("Test user: %s (ID: %s)\n", *email, *userID)
	fmt.Printf("\nTest JWT Token:\n%s\n\n", token)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s\"\n", token)
}
