package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendSQL   = "sql"
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// SQL dialects
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

const (
	defaultPort       = 3318
	defaultSQLitePath = "data/votes.db"
	defaultDataFile   = "data/votes.json"
	defaultMongoDB    = "vote"
	defaultProvider   = "dashscope"
	defaultModel      = "qwen-max"
	defaultLLMTimeout = 15 * time.Second
)

type Config struct {
	Port int

	StoreBackend string
	DatabaseType string
	DatabaseURL  string
	DataFile     string
	MongoURI     string
	MongoDB      string

	ClearPassword string

	LLMProvider string
	LLMAPIURL   string
	LLMAPIKey   string
	LLMModel    string
	LLMTimeout  time.Duration

	Debug bool
}

// LLMConfigured reports whether a remote parser credential is available.
func (c Config) LLMConfigured() bool {
	return c.LLMAPIKey != ""
}

// LoadEnvFiles loads KEY=VALUE files into the environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var timeout string

	fs := flag.NewFlagSet("classvote", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StoreBackend, "s", "", "Storage backend (sql, file or mongo)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or SQLite path")
	fs.StringVar(&cfg.DataFile, "f", "", "Vote file for the file backend")
	fs.StringVar(&cfg.MongoURI, "mongo-uri", "", "MongoDB connection string")
	fs.StringVar(&cfg.MongoDB, "mongo-db", "", "MongoDB database name")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.ClearPassword, "clear-password", "", "Password for clearing votes (prefer env)")
	fs.StringVar(&cfg.LLMAPIKey, "llm-key", "", "LLM API key (prefer env)")

	// Remote parser
	fs.StringVar(&cfg.LLMProvider, "llm-provider", "", "LLM wire format (dashscope or openai)")
	fs.StringVar(&cfg.LLMAPIURL, "llm-url", "", "LLM endpoint URL")
	fs.StringVar(&cfg.LLMModel, "llm-model", "", "LLM model identifier")
	fs.StringVar(&timeout, "llm-timeout", "", "LLM request timeout, e.g. 15s")

	fs.BoolVar(&cfg.Debug, "debug", false, "Human-readable logs")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	setDefault(&cfg.StoreBackend, env("STORE_BACKEND"), BackendSQL)
	cfg.StoreBackend = strings.ToLower(cfg.StoreBackend)

	switch cfg.StoreBackend {
	case BackendSQL:
		setDefault(&cfg.DatabaseType, env("DATABASE_TYPE"), DatabaseSQLite)
		cfg.DatabaseType = strings.ToLower(cfg.DatabaseType)
		setDefault(&cfg.DatabaseURL, env("DATABASE_URL"), "")
		switch cfg.DatabaseType {
		case DatabaseSQLite:
			setDefault(&cfg.DatabaseURL, defaultSQLitePath, "")
		case DatabasePostgres:
			if cfg.DatabaseURL == "" {
				return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
			}
		default:
			return Config{}, fmt.Errorf("unknown DATABASE_TYPE %q", cfg.DatabaseType)
		}
	case BackendFile:
		setDefault(&cfg.DataFile, env("DATA_FILE"), defaultDataFile)
	case BackendMongo:
		setDefault(&cfg.MongoURI, env("MONGODB_URI"), "")
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGODB_URI required for the mongo backend")
		}
		setDefault(&cfg.MongoDB, env("MONGODB_DB"), defaultMongoDB)
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	// Secrets - MUST be provided
	setDefault(&cfg.ClearPassword, env("CLEAR_PASSWORD"), "")
	if cfg.ClearPassword == "" {
		return Config{}, errors.New("CLEAR_PASSWORD required")
	}

	// The remote parser is optional; without a key voice parsing stays local
	setDefault(&cfg.LLMAPIKey, env("LLM_API_KEY", "QIANWEN_API_KEY"), "")
	setDefault(&cfg.LLMProvider, env("LLM_PROVIDER"), defaultProvider)
	cfg.LLMProvider = strings.ToLower(cfg.LLMProvider)
	setDefault(&cfg.LLMAPIURL, env("LLM_API_URL", "QIANWEN_API_URL"), "")
	setDefault(&cfg.LLMModel, env("LLM_MODEL", "QIANWEN_MODEL"), defaultModel)

	setDefault(&timeout, env("LLM_TIMEOUT"), "")
	cfg.LLMTimeout = defaultLLMTimeout
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid LLM timeout %q", timeout)
		}
		cfg.LLMTimeout = d
	}

	if !cfg.Debug {
		cfg.Debug = os.Getenv("DEBUG") == "true"
	}

	return cfg, nil
}

// env returns the first non-empty environment variable among keys
func env(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func setDefault(dst *string, values ...string) {
	if *dst != "" {
		return
	}
	for _, v := range values {
		if v != "" {
			*dst = v
			return
		}
	}
}
