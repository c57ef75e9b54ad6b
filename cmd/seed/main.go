package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"skirent-backend/internal/config"
	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
)

type User struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	Surname     string `yaml:"surname"`
	PhoneNumber string `yaml:"phone_number"`
	Admin       bool   `yaml:"admin"`
}

type Material struct {
	Category    string   `yaml:"category"`
	Name        string   `yaml:"name"`
	Brand       string   `yaml:"brand"`
	Model       string   `yaml:"model"`
	Description string   `yaml:"description"`
	Price       *float64 `yaml:"price"`
	Inactive    bool     `yaml:"inactive"`
}

type SeedData struct {
	Users     []User     `yaml:"users"`
	Materials []Material `yaml:"materials"`
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	seedPath := flag.String("data", "config/seed.dev.yaml", "Path to the seed data file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	data, err := readSeedFile(*seedPath)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Connected to database", "host", cfg.Database.Host, "database", cfg.Database.Database)

	if err := populateData(context.Background(), db, data); err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}
	logger.Info("Seed data populated", "users", len(data.Users), "materials", len(data.Materials))
}

func readSeedFile(filename string) (*SeedData, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func populateData(ctx context.Context, db *sql.DB, data *SeedData) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO roles (id, name, description) VALUES
			(1, 'NORMAL', 'Customer'),
			($1, 'ADMIN', 'Shop administrator'),
			(3, 'JEFE', 'Shop owner')
		ON CONFLICT (id) DO NOTHING
	`, domain.RoleIDAdmin)
	if err != nil {
		return fmt.Errorf("failed to create roles: %w", err)
	}

	// Users log in; the client row with the same id holds their customer profile.
	for i, user := range data.Users {
		logger.Info("Creating user", "n", i+1, "of", len(data.Users), "email", user.Email)

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", user.Email, err)
		}

		roleID := int32(1)
		if user.Admin {
			roleID = domain.RoleIDAdmin
		}
		id := uuid.NewString()
		email := strings.ToLower(strings.TrimSpace(user.Email))
		displayName := domain.FullName(user.Name, user.Surname)
		var phone *string
		if user.PhoneNumber != "" {
			phone = &user.PhoneNumber
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, role_id, name, surname, email, phone_number, display_name, password_hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, id, roleID, user.Name, user.Surname, email, phone, displayName, string(passwordHash))
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.Email, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO clients (id, role_id, name, surname, email, phone_number, display_name, created_on)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, id, roleID, user.Name, user.Surname, email, phone, displayName, time.Now())
		if err != nil {
			return fmt.Errorf("failed to create client %s: %w", user.Email, err)
		}
	}

	categories := map[string]int32{}
	for _, m := range data.Materials {
		categoryID, ok := categories[m.Category]
		if !ok {
			err := tx.QueryRowContext(ctx, `
				INSERT INTO categories (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			`, m.Category).Scan(&categoryID)
			if err != nil {
				return fmt.Errorf("failed to create category %s: %w", m.Category, err)
			}
			categories[m.Category] = categoryID
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO materials (category_id, name, brand, model, description, price, active, created_on)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, categoryID, m.Name, m.Brand, m.Model, m.Description, m.Price, !m.Inactive, time.Now())
		if err != nil {
			return fmt.Errorf("failed to create material %s: %w", m.Name, err)
		}
	}

	return tx.Commit()
}
