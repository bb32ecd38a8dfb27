package db

// pgSchema is applied statement by statement by PGStore.Migrate
var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS sectors (
		id          SERIAL PRIMARY KEY,
		sector_name VARCHAR(20) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		stock_ticker VARCHAR(10) PRIMARY KEY,
		company_name VARCHAR(32) NOT NULL,
		sector_id    INTEGER NOT NULL REFERENCES sectors(id),
		description  TEXT,
		last_updated DATE NOT NULL DEFAULT DATE '1970-01-01'
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL,
		stock_ticker VARCHAR(10) NOT NULL REFERENCES companies(stock_ticker),
		UNIQUE (user_id, stock_ticker)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL,
		read       BOOLEAN NOT NULL DEFAULT FALSE,
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_user_idx ON notifications (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id              BIGSERIAL PRIMARY KEY,
		url             TEXT NOT NULL UNIQUE,
		title           TEXT NOT NULL,
		stock_ticker    VARCHAR(10) NOT NULL REFERENCES companies(stock_ticker),
		source_name     VARCHAR(50) NOT NULL,
		source_domain   TEXT NOT NULL,
		published       TIMESTAMPTZ NOT NULL,
		description     TEXT,
		banner_image    TEXT,
		sentiment_label VARCHAR(10) NOT NULL,
		sentiment_score DOUBLE PRECISION NOT NULL,
		topics          TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS articles_ticker_idx ON articles (stock_ticker, published DESC)`,
	`CREATE TABLE IF NOT EXISTS sentiment_ratings (
		id           BIGSERIAL PRIMARY KEY,
		stock_ticker VARCHAR(10) NOT NULL REFERENCES companies(stock_ticker),
		date         DATE NOT NULL,
		rating       DOUBLE PRECISION NOT NULL,
		UNIQUE (stock_ticker, date)
	)`,
}

// sqliteSchema stores timestamps as unix seconds and dates as YYYY-MM-DD text
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sectors (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		sector_name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		stock_ticker TEXT PRIMARY KEY,
		company_name TEXT NOT NULL,
		sector_id    INTEGER NOT NULL REFERENCES sectors(id),
		description  TEXT,
		last_updated TEXT NOT NULL DEFAULT '1970-01-01'
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id      INTEGER NOT NULL,
		stock_ticker TEXT NOT NULL REFERENCES companies(stock_ticker),
		UNIQUE (user_id, stock_ticker)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL,
		read       INTEGER NOT NULL DEFAULT 0,
		message    TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_user_idx ON notifications (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		url             TEXT NOT NULL UNIQUE,
		title           TEXT NOT NULL,
		stock_ticker    TEXT NOT NULL REFERENCES companies(stock_ticker),
		source_name     TEXT NOT NULL,
		source_domain   TEXT NOT NULL,
		published       INTEGER NOT NULL,
		description     TEXT,
		banner_image    TEXT,
		sentiment_label TEXT NOT NULL,
		sentiment_score REAL NOT NULL,
		topics          TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS articles_ticker_idx ON articles (stock_ticker, published DESC)`,
	`CREATE TABLE IF NOT EXISTS sentiment_ratings (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		stock_ticker TEXT NOT NULL REFERENCES companies(stock_ticker),
		date         TEXT NOT NULL,
		rating       REAL NOT NULL,
		UNIQUE (stock_ticker, date)
	)`,
}
