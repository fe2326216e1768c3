package db

var schema = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	name VARCHAR(255) NOT NULL,
	date TIMESTAMPTZ NOT NULL,
	venue VARCHAR(255) NOT NULL,
	total_seats INT NOT NULL CHECK (total_seats >= 0),
	available_seats INT NOT NULL,
	CONSTRAINT available_seats_within_total CHECK (available_seats BETWEEN 0 AND total_seats)
);

CREATE TABLE IF NOT EXISTS bookings (
	booking_id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events (event_id) ON DELETE RESTRICT,
	user_name VARCHAR(255) NOT NULL,
	number_of_tickets INT NOT NULL CHECK (number_of_tickets > 0),
	booking_reference VARCHAR(64) NOT NULL UNIQUE,
	booking_date TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS bookings_user_name_idx ON bookings (lower(user_name));
CREATE INDEX IF NOT EXISTS bookings_event_id_idx ON bookings (event_id);

CREATE TABLE IF NOT EXISTS read_model_ops_bookings (
	booking_id UUID PRIMARY KEY,
	payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS domain_events (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMP NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);
`
