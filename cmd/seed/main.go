package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jayanta8509/TAX-MCP/internal/config"
	"github.com/jayanta8509/TAX-MCP/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS individual (
	id BIGINT PRIMARY KEY,
	first_name TEXT,
	middle_name TEXT,
	last_name TEXT,
	birth_date DATE,
	country_of_citizenship TEXT,
	country_of_residence TEXT,
	ssn_itin_type TEXT,
	ssn_itin TEXT,
	needs_w7 TEXT,
	filing_status TEXT,
	email TEXT,
	status TEXT
);

CREATE TABLE IF NOT EXISTS company (
	company_id BIGINT PRIMARY KEY,
	name TEXT,
	dba TEXT,
	fein TEXT,
	email TEXT,
	contact_name TEXT,
	filing_status TEXT,
	date_of_dissolution DATE,
	status TEXT
);`

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	// Load config
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to DB
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	// 1. Ensure schemas exist
	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	logger.Info("Schema ready")

	// 2. Sample individual client
	_, err = pool.Exec(ctx, `
		INSERT INTO individual (id, first_name, middle_name, last_name, birth_date,
			country_of_citizenship, ssn_itin_type, ssn_itin, filing_status, email, status)
		VALUES (8, 'Robert', 'SEBASTIAO', 'Da Elvis', '1985-03-14',
			'Brazil', 'ITIN', '912-34-5678', 'single', 'robert@example.com', 'active')
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.Fatalf("Failed to seed individual: %v", err)
	}

	// 3. Sample company client
	_, err = pool.Exec(ctx, `
		INSERT INTO company (company_id, name, dba, fein, email, contact_name, filing_status, status)
		VALUES (3, 'Acme Holdings LLC', 'Acme', '12-3456789', 'ops@acme.example',
			'Maria Gonzalez', '1120', 'active')
		ON CONFLICT (company_id) DO NOTHING`)
	if err != nil {
		log.Fatalf("Failed to seed company: %v", err)
	}

	logger.Info("Seed data loaded: individual id=8, company id=3")
}
