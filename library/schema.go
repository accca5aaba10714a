package library

import "strconv"

// SchemaVersion is recorded in the meta table after the schema is applied.
// Migrate skips stores already at this version.
const SchemaVersion = 1

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`,
	`CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT NOT NULL UNIQUE,
        password TEXT NOT NULL,
        email TEXT
    );`,
	`CREATE TABLE IF NOT EXISTS employees (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        position TEXT
    );`,
	`CREATE TABLE IF NOT EXISTS books (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL,
        author TEXT,
        publication_year INTEGER,
        genre TEXT
    );`,
	`INSERT INTO meta(key,value) VALUES('schema_version','` + strconv.Itoa(SchemaVersion) + `')
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`,
	`CREATE TABLE IF NOT EXISTS users (
        id INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
        username VARCHAR(50) NOT NULL UNIQUE,
        password VARCHAR(255) NOT NULL,
        email VARCHAR(100)
    );`,
	`CREATE TABLE IF NOT EXISTS employees (
        id INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
        name VARCHAR(100) NOT NULL,
        position VARCHAR(100)
    );`,
	`CREATE TABLE IF NOT EXISTS books (
        id INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
        title VARCHAR(255) NOT NULL,
        author VARCHAR(100),
        publication_year SMALLINT,
        genre VARCHAR(100)
    );`,
	`INSERT INTO meta(key,value) VALUES('schema_version','` + strconv.Itoa(SchemaVersion) + `')
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
}
