package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS hotels (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL,
		area_id UUID,
		chain_id UUID,
		stars INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_hotels_agency ON hotels (agency_id);`,
	`CREATE TABLE IF NOT EXISTS hotel_contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		attachment_ref TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_hotel ON hotel_contracts (agency_id, hotel_id);`,
	`CREATE TABLE IF NOT EXISTS hotel_seasons (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		name_id UUID NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_seasons_hotel ON hotel_seasons (agency_id, hotel_id);`,
	`CREATE INDEX IF NOT EXISTS idx_seasons_dates ON hotel_seasons (start_date, end_date);`,
	`CREATE TABLE IF NOT EXISTS hotel_rates (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		season_id UUID NOT NULL REFERENCES hotel_seasons(id) ON DELETE CASCADE,
		room_type_id UUID NOT NULL,
		start_date DATE,
		end_date DATE,
		amount NUMERIC(18,2) NOT NULL,
		half_board_amount NUMERIC(18,2),
		full_board_amount NUMERIC(18,2),
		single_supplement_amount NUMERIC(18,2),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_rates_season ON hotel_rates (agency_id, season_id);`,
	`CREATE TABLE IF NOT EXISTS places (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL,
		area_id UUID
	);`,
	`CREATE TABLE IF NOT EXISTS entrance_fees (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		place_id UUID NOT NULL REFERENCES places(id) ON DELETE CASCADE,
		country_id UUID NOT NULL,
		amount NUMERIC(18,2) NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_entrance_fee ON entrance_fees (place_id, country_id);`,
	`CREATE TABLE IF NOT EXISTS list_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		category VARCHAR(32) NOT NULL,
		name VARCHAR(255) NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_list_items_category ON list_items (agency_id, category);`,
	`CREATE TABLE IF NOT EXISTS meals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS extra_services (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS transportation_fees (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		fee_type_id UUID NOT NULL,
		fee_type_name VARCHAR(255) NOT NULL,
		vehicle_type_id UUID NOT NULL,
		vehicle_type_name VARCHAR(255) NOT NULL,
		amount NUMERIC(18,2) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS quotations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		client_id UUID NOT NULL,
		transportation_company_id UUID,
		arrival DATE NOT NULL,
		departure DATE NOT NULL,
		group_name VARCHAR(255) NOT NULL DEFAULT '',
		country_id UUID,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS route_entries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_id UUID NOT NULL,
		quotation_id UUID NOT NULL REFERENCES quotations(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		route_id UUID NOT NULL,
		transportation_type VARCHAR(64) NOT NULL DEFAULT '',
		transportation_amount NUMERIC(18,2) NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_route_entries_quotation ON route_entries (agency_id, quotation_id);`,
	`CREATE TABLE IF NOT EXISTS place_visits (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		route_entry_id UUID NOT NULL REFERENCES route_entries(id) ON DELETE CASCADE,
		place_id UUID NOT NULL,
		entrance_fee_pp NUMERIC(18,2) NOT NULL DEFAULT 0,
		guide_type_id UUID,
		guide_cost NUMERIC(18,2) NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS meal_selections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		route_entry_id UUID NOT NULL REFERENCES route_entries(id) ON DELETE CASCADE,
		meal_id UUID NOT NULL,
		restaurant_id UUID NOT NULL,
		amount_pp NUMERIC(18,2) NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS extra_service_selections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		route_entry_id UUID NOT NULL REFERENCES route_entries(id) ON DELETE CASCADE,
		service_id UUID NOT NULL,
		cost_pp NUMERIC(18,2) NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS accommodation_options (
		agency_id UUID NOT NULL,
		quotation_id UUID NOT NULL REFERENCES quotations(id) ON DELETE CASCADE,
		option_id INT NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		sort_order INT NOT NULL DEFAULT 0,
		PRIMARY KEY (agency_id, quotation_id, option_id)
	);`,
	`CREATE TABLE IF NOT EXISTS room_lines (
		agency_id UUID NOT NULL,
		quotation_id UUID NOT NULL,
		option_id INT NOT NULL,
		hotel_id UUID NOT NULL,
		season_id UUID NOT NULL,
		rate_id UUID NOT NULL,
		room_type_id UUID NOT NULL,
		nights INT NOT NULL,
		guests INT NOT NULL DEFAULT 1,
		rate_amount NUMERIC(18,2) NOT NULL,
		half_board_amount NUMERIC(18,2),
		full_board_amount NUMERIC(18,2),
		single_supplement_amount NUMERIC(18,2),
		PRIMARY KEY (agency_id, quotation_id, option_id, season_id, rate_id),
		FOREIGN KEY (agency_id, quotation_id, option_id)
			REFERENCES accommodation_options (agency_id, quotation_id, option_id)
			ON DELETE CASCADE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_room_lines_hotel ON room_lines (agency_id, quotation_id, option_id, hotel_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
