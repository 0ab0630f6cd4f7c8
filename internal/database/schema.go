package database

import (
	"context"
	"database/sql"
	"fmt"
)

// The schema is bootstrapped with CREATE TABLE IF NOT EXISTS on every start.
// Both dialects share column names so repositories run the same queries.
// booking_date is stored as its YYYY-MM-DD text form in both.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		username   TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'customer',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS brands (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		name              TEXT NOT NULL UNIQUE,
		logo_url          TEXT NOT NULL DEFAULT '',
		country_of_origin TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS bikes (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		brand_id      INTEGER NOT NULL REFERENCES brands(id),
		model_name    TEXT NOT NULL,
		type          TEXT NOT NULL,
		engine_cc     INTEGER NOT NULL,
		price_on_road INTEGER NOT NULL,
		image_url     TEXT NOT NULL DEFAULT '',
		is_trending   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS dealers (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		name           TEXT NOT NULL,
		city           TEXT NOT NULL,
		location_area  TEXT NOT NULL DEFAULT '',
		contact_number TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS test_rides (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id      INTEGER NOT NULL REFERENCES users(id),
		bike_id      INTEGER NOT NULL REFERENCES bikes(id),
		dealer_id    INTEGER NOT NULL REFERENCES dealers(id),
		booking_date TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'Pending',
		created_at   DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_test_rides_user ON test_rides(user_id, created_at)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGINT AUTO_INCREMENT PRIMARY KEY,
		username   VARCHAR(100) NOT NULL,
		email      VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		password   VARCHAR(255) NOT NULL,
		role       VARCHAR(20) NOT NULL DEFAULT 'customer',
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS brands (
		id                BIGINT AUTO_INCREMENT PRIMARY KEY,
		name              VARCHAR(100) NOT NULL,
		logo_url          VARCHAR(500) NOT NULL DEFAULT '',
		country_of_origin VARCHAR(100) NOT NULL DEFAULT '',
		UNIQUE KEY uq_brands_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bikes (
		id            BIGINT AUTO_INCREMENT PRIMARY KEY,
		brand_id      BIGINT NOT NULL,
		model_name    VARCHAR(150) NOT NULL,
		type          VARCHAR(50) NOT NULL,
		engine_cc     INT NOT NULL,
		price_on_road BIGINT NOT NULL,
		image_url     VARCHAR(500) NOT NULL DEFAULT '',
		is_trending   TINYINT NOT NULL DEFAULT 0,
		CONSTRAINT fk_bikes_brand FOREIGN KEY (brand_id) REFERENCES brands(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS dealers (
		id             BIGINT AUTO_INCREMENT PRIMARY KEY,
		name           VARCHAR(150) NOT NULL,
		city           VARCHAR(100) NOT NULL,
		location_area  VARCHAR(150) NOT NULL DEFAULT '',
		contact_number VARCHAR(50) NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS test_rides (
		id           BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id      BIGINT NOT NULL,
		bike_id      BIGINT NOT NULL,
		dealer_id    BIGINT NOT NULL,
		booking_date CHAR(10) NOT NULL,
		status       VARCHAR(20) NOT NULL DEFAULT 'Pending',
		created_at   DATETIME(6) NOT NULL,
		KEY idx_test_rides_user (user_id, created_at),
		CONSTRAINT fk_test_rides_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_test_rides_bike FOREIGN KEY (bike_id) REFERENCES bikes(id),
		CONSTRAINT fk_test_rides_dealer FOREIGN KEY (dealer_id) REFERENCES dealers(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables for the given driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverSQLite:
		stmts = sqliteSchema
	case DriverMySQL:
		stmts = mysqlSchema
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
