package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/callguardhq/callguard/pkg/config"
	pkgjwt "github.com/callguardhq/callguard/pkg/jwt"
)

// Issues a bearer token for local testing of the authenticated routes.
func main() {
	email := flag.String("email", "officer@example.com", "email claim")
	role := flag.String("role", pkgjwt.RoleComplianceOfficer, "role claim")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	manager := pkgjwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	userID := uuid.New()
	access, err := manager.GenerateAccessToken(userID, *email, *role)
	if err != nil {
		log.Fatalf("Failed to generate access token: %v", err)
	}
	refresh, err := manager.GenerateRefreshToken(userID)
	if err != nil {
		log.Fatalf("Failed to generate refresh token: %v", err)
	}

	fmt.Printf("user_id: %s\n", userID)
	fmt.Printf("access:  %s\n", access)
	fmt.Printf("refresh: %s\n", refresh)
}
