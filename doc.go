// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the class vote server.

Students vote for one of seven classes, either by filling in a form or by
speaking a sentence such as "学号220328 姓名张三 投给一班". Each student id
may vote once. A live results page shows the tally per class.

# Starting the Server

Only the clear password is required; votes then go to a local SQLite file:

	CLEAR_PASSWORD=... go run .

Or with flags:

	go run . -p 3318 -s sql -t postgres -d "postgres://..."

Settings are read from flags first, then the environment, then the
optional .env and .env.local files.

# Configuration

  - PORT (-p): Server port (default: 3318)
  - STORE_BACKEND (-s): sql, file or mongo (default: sql)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - DATA_FILE (-f): JSON file for the file backend
  - MONGODB_URI, MONGODB_DB: MongoDB connection for the mongo backend
  - CLEAR_PASSWORD (--clear-password): Password required to clear all votes
  - LLM_PROVIDER, LLM_API_URL, LLM_API_KEY, LLM_MODEL, LLM_TIMEOUT: Remote transcript parser
  - DEBUG (--debug): Human-readable debug logs

Without LLM_API_KEY every transcript is parsed by the local rule-based
parser.

# Architecture

  - handlers: HTTP request handlers (voting, results, voice, pages)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Request ids, logging, CORS, JSON helpers
  - store: Vote storage over SQL, a JSON file or MongoDB
  - tally: Per-class aggregation
  - voice: Transcript parsing, local and model-backed
  - llm: Hosted language model clients
  - web: Embedded HTML templates
  - models: Request/response types
  - auth: Clear password check and IP hashing
  - db: Connection and schema setup
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
