package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Mints a short-lived HS256 token for exercising the protected API
// endpoints locally. JWT_ISSUER is optional, matching the middleware.
func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "Error: JWT_SECRET environment variable must be set")
		fmt.Fprintln(os.Stderr, "Usage: JWT_SECRET=secret [JWT_ISSUER=https://auth.example.com] go run scripts/generate-jwt.go [subject]")
		os.Exit(1)
	}

	subject := "local-dev-user"
	if len(os.Args) > 1 {
		subject = os.Args[1]
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		claims["iss"] = issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tokenString)
}
