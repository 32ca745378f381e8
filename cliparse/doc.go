// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnvFiles reads optional .env files, then ParseFlags returns a Config:

	_ = cliparse.LoadEnvFiles(".env.local", ".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values already present in the environment win over .env files, and CLI
flags win over both.

# Config Fields

  - Port: Server listen port (default: 3318)
  - StoreBackend: sql (default), file or mongo
  - DatabaseType / DatabaseURL: sqlite (default path data/votes.db) or postgres
  - DataFile: JSON vote file for the file backend (default data/votes.json)
  - MongoURI / MongoDB: document store connection (database default "vote")
  - ClearPassword: shared secret for clearing all votes (required)
  - LLMProvider / LLMAPIURL / LLMAPIKey / LLMModel / LLMTimeout: remote parser

# Environment Variables

	PORT            → -p
	STORE_BACKEND   → -s
	DATABASE_TYPE   → -t
	DATABASE_URL    → -d
	DATA_FILE       → -f
	MONGODB_URI     → --mongo-uri
	MONGODB_DB      → --mongo-db
	CLEAR_PASSWORD  → --clear-password
	LLM_API_KEY     → --llm-key      (alias QIANWEN_API_KEY)
	LLM_PROVIDER    → --llm-provider
	LLM_API_URL     → --llm-url      (alias QIANWEN_API_URL)
	LLM_MODEL       → --llm-model    (alias QIANWEN_MODEL)
	LLM_TIMEOUT     → --llm-timeout
	DEBUG           → --debug

# Validation

ParseFlags returns an error when:

  - CLEAR_PASSWORD is missing
  - the postgres dialect is selected without DATABASE_URL
  - the mongo backend is selected without MONGODB_URI
  - STORE_BACKEND, DATABASE_TYPE or LLM_TIMEOUT is not recognised

A missing LLM key is not an error; voice parsing falls back to the local
parser.
*/
package cliparse
