package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/aulavia/examenes-backend/internal/config"
	"github.com/aulavia/examenes-backend/internal/database"
	"github.com/aulavia/examenes-backend/internal/logger"
	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/aulavia/examenes-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	instructorRepo := repository.NewInstructorRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Instructor ===")

	// Username
	fmt.Print("Enter Username: ")
	usuario, _ := reader.ReadString('\n')
	usuario = strings.TrimSpace(usuario)
	if usuario == "" {
		fmt.Println("Error: Username is required")
		return
	}

	// Full name
	fmt.Print("Enter Full Name: ")
	nombre, _ := reader.ReadString('\n')
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		fmt.Println("Error: Full name is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	instructor := &model.Instructor{
		Usuario:        usuario,
		NombreCompleto: nombre,
		PasswordHash:   string(hashedPassword),
	}

	if err := instructorRepo.Create(ctx, instructor); err != nil {
		log.Fatal().Err(err).Msg("Failed to create instructor")
	}

	fmt.Printf("\nSuccess! Instructor '%s' (%s) created with ID: %s\n", instructor.NombreCompleto, instructor.Usuario, instructor.ID)
}
