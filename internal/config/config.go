package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	//App
	Env string // dev / staging / prod

	// Infrastructure
	DBAddr  string
	DBDebug bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitURL string

	// Password hashing work factor
	BcryptCost int

	// Upper bound for a single run
	OpTimeout time.Duration
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("load env file %s: %w", path, err)
	}
	return true, nil
}

func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("ENV", "dev"),
	}

	// The database is the only hard dependency.
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	if err := validatePostgresDSN(cfg.DBAddr); err != nil {
		return nil, err
	}

	dbg, err := getBool("DB_DEBUG", false)
	if err != nil {
		return nil, err
	}
	cfg.DBDebug = dbg

	cost, err := getInt("BCRYPT_COST", 10)
	if err != nil {
		return nil, err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	cfg.BcryptCost = cost

	// Optional side channels; empty disables them.
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	rdb, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = rdb

	cfg.RabbitURL = os.Getenv("RABBIT_URL")

	ot, err := getDuration("OP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.OpTimeout = ot

	return cfg, nil
}

func validatePostgresDSN(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("invalid DB_ADDR: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("DB_ADDR must use postgres:// or postgresql://, got %q", u.Scheme)
	}
	if strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("DB_ADDR must name a database")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}
