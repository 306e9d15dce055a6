package storage

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS persons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL UNIQUE REFERENCES contacts(id) ON DELETE CASCADE,
		salutation TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL,
		middle_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		date_of_birth DATE,
		gender TEXT NOT NULL DEFAULT '',
		civil_status TEXT NOT NULL DEFAULT '',
		age_group TEXT NOT NULL DEFAULT '',
		place_of_work TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL UNIQUE REFERENCES contacts(id) ON DELETE CASCADE,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS phones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		is_primary BOOLEAN NOT NULL DEFAULT 0,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS emails (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		is_primary BOOLEAN NOT NULL DEFAULT 0,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		is_primary BOOLEAN NOT NULL DEFAULT 0,
		country TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		county TEXT NOT NULL DEFAULT '',
		free_form TEXT NOT NULL DEFAULT '',
		place_id TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL
	)`,
	`CREATE TABLE IF NOT EXISTS contact_groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		parent_id INTEGER REFERENCES contact_groups(id),
		category_id TEXT NOT NULL,
		privacy TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL,
		meta_data TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_groups_parent ON contact_groups(parent_id, category_id)`,
	`CREATE TABLE IF NOT EXISTS group_memberships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		group_id INTEGER NOT NULL REFERENCES contact_groups(id) ON DELETE CASCADE,
		role TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_group_memberships_group ON group_memberships(group_id)`,
	`CREATE TABLE IF NOT EXISTS group_membership_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		parent_id INTEGER,
		group_id INTEGER NOT NULL REFERENCES contact_groups(id) ON DELETE CASCADE,
		distance_km REAL NOT NULL CHECK (distance_km >= 0),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS identifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		value TEXT NOT NULL,
		issue_date DATE,
		expiry_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS occasions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		value DATE,
		details TEXT NOT NULL DEFAULT ''
	)`,
}
