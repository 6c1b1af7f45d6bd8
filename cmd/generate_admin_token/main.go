package main

import (
	"fmt"
	"log"

	"latribu-backend/internal/config"
	"latribu-backend/internal/utils"
)

// Печатает токен администратора для /api/admin (очистка кэшей, выручка по turnos)
func main() {
	cfg := config.Load()

	token, err := utils.GenerateAdminJWT(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Error generating admin token: %v", err)
	}

	fmt.Printf("Generated admin token: %s\n", token)
}
