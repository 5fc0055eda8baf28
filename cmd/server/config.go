package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	defaultListenAddr = "localhost:8080"
	defaultOrigins    = "*"
)

// Config is resolved in layers: defaults, then .env, then the process
// environment, then flags. Later layers win.
type Config struct {
	// Address the HTTP server binds to
	ListenAddr string

	// Comma-separated allowed CORS origins
	Origins string
}

func NewConfig() *Config {
	return &Config{
		ListenAddr: defaultListenAddr,
		Origins:    defaultOrigins,
	}
}

// LoadDotEnv reads a '.env' file from the working directory, if present.
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
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"LISTEN_ADDRESS": setString(&c.ListenAddr),
		"CORS_ORIGINS":   setString(&c.Origins),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("ledger-server", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.Origins, "origins", "o", c.Origins, "Comma-separated allowed CORS origins")

	return fs.Parse(args)
}

// AllowedOrigins splits the configured origins for the CORS middleware.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.Origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
