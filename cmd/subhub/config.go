package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ahm4dd/subhub/internal/logger"
	"github.com/ahm4dd/subhub/internal/service/auth"
)

const (
	defaultListenAddr      = "localhost:3000"
	defaultLoggingLevel    = logger.LevelInfo
	defaultEnvironment     = logger.EnvProduction
	defaultAccessTokenTTL  = time.Hour
	defaultRefreshTokenTTL = 60 * 24 * time.Hour
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the subhub service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key signing regular user access tokens
	UserSecret string

	// Secret key signing admin access tokens, a disjoint trust domain
	AdminSecret string

	// Token lifetimes
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Bcrypt cost factor for password hashing
	HashCost int

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:        defaultLoggingLevel,
		ListenAddr:      defaultListenAddr,
		AccessTokenTTL:  defaultAccessTokenTTL,
		RefreshTokenTTL: defaultRefreshTokenTTL,
		HashCost:        auth.DefaultHashCost,
		Environment:     defaultEnvironment,
	}
}

// Load variables from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setDuration := func(o *time.Duration) func(value string) {
		return func(value string) {
			if d, err := time.ParseDuration(value); err == nil {
				*o = d
			}
		}
	}
	setInt := func(o *int) func(value string) {
		return func(value string) {
			if n, err := strconv.Atoi(value); err == nil {
				*o = n
			}
		}
	}

	envMap := map[string]func(string){
		"LISTEN_ADDR":       setString(&c.ListenAddr),
		"DB_URL":            setString(&c.DatabaseDSN),
		"JWT_SECRET":        setString(&c.UserSecret),
		"JWT_SECRET_ADMIN":  setString(&c.AdminSecret),
		"ACCESS_TOKEN_TTL":  setDuration(&c.AccessTokenTTL),
		"REFRESH_TOKEN_TTL": setDuration(&c.RefreshTokenTTL),
		"HASH_COST":         setInt(&c.HashCost),
		"LOG_LEVEL":         setString(&c.LogLevel),
		"ENVIRONMENT":       setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("subhub", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVar(&c.UserSecret, "secret", c.UserSecret, "Secret key signing user access tokens")
	fs.StringVar(&c.AdminSecret, "admin-secret", c.AdminSecret, "Secret key signing admin access tokens")
	fs.DurationVar(&c.AccessTokenTTL, "access-ttl", c.AccessTokenTTL, "Access token lifetime")
	fs.DurationVar(&c.RefreshTokenTTL, "refresh-ttl", c.RefreshTokenTTL, "Refresh token lifetime")
	fs.IntVar(&c.HashCost, "hash-cost", c.HashCost, "Bcrypt cost factor")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}

func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required")
	}
	if c.UserSecret == "" {
		return errors.New("JWT secret is required")
	}
	return nil
}
