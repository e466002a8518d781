package db

import "database/sql"

// EnsureSchema creates the three core tables when they do not exist yet.
// The unique key on (trip_id, passenger_id) backs the duplicate-booking
// check, and the FK cascade removes a trip's bookings with the trip.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(100) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	pin_hash VARCHAR(255) NULL,
	rating DECIMAL(3,2) NOT NULL DEFAULT 0,
	trips_count INT NOT NULL DEFAULT 0,
	verified TINYINT(1) NOT NULL DEFAULT 0,
	push_token VARCHAR(255) NULL,
	last_token_update DATETIME NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS trips (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	departure VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	trip_date CHAR(10) NOT NULL,
	trip_time CHAR(5) NOT NULL,
	price BIGINT NOT NULL,
	available_seats INT NOT NULL,
	driver_id BIGINT NOT NULL,
	driver_name VARCHAR(255) NOT NULL DEFAULT '',
	driver_rating DECIMAL(3,2) NOT NULL DEFAULT 0,
	driver_trips_count INT NOT NULL DEFAULT 0,
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_driver (driver_id),
	KEY idx_route (departure, destination),
	CONSTRAINT fk_trips_driver FOREIGN KEY (driver_id) REFERENCES users(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	passenger_id BIGINT NOT NULL,
	passenger_name VARCHAR(255) NOT NULL DEFAULT '',
	passenger_phone VARCHAR(100) NOT NULL DEFAULT '',
	driver_id BIGINT NOT NULL,
	seats_booked INT NOT NULL,
	total_price BIGINT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_trip_passenger (trip_id, passenger_id),
	KEY idx_passenger (passenger_id),
	KEY idx_trip_status (trip_id, status),
	CONSTRAINT fk_bookings_trip FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	}

	for _, ddl := range stmts {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
