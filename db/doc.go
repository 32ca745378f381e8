// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the SQL database and creates its schema.

# Connecting

Open selects the driver by dialect name and pings the server:

	conn, err := db.Open(ctx, db.SQLite, "data/votes.db")
	conn, err := db.Open(ctx, db.Postgres, "postgres://...")

SQLite runs on modernc.org/sqlite (pure Go, no cgo). The connection pool is
capped at one connection and every connection waits up to five seconds on a
locked database instead of failing with SQLITE_BUSY. PostgreSQL runs on
github.com/lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

	vote
	  student_id    TEXT PRIMARY KEY     one vote per student, enforced here
	  student_name  TEXT NOT NULL
	  class_id      INTEGER NOT NULL     CHECK 1..7
	  voted_at      TEXT NOT NULL        RFC 3339, UTC

voted_at is stored as text so both dialects round-trip the same value.

# Indexes

  - vote.class_id
*/
package db
