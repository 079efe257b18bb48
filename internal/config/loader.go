package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed

	// LookupEnv reads process variables. Nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the configuration file, if any, then applies REGIONSHOT_*
// overrides. Process variables win over .env files, which are read from
// the config directory and the working directory.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	path := l.GetConfigPath()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if cfg, err = Parse(f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	dotenv := readDotenv(l.dotenvPaths(path))
	if err := cfg.ApplyEnv(chainLookup(lookup, mapLookup(dotenv))); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) dotenvPaths(configPath string) []string {
	var paths []string
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, ".env"))
	}
	if configPath != "" {
		paths = append(paths, filepath.Join(filepath.Dir(configPath), ".env"))
	}
	return paths
}

// readDotenv merges the existing files; earlier paths win.
func readDotenv(paths []string) map[string]string {
	out := map[string]string{}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		values, err := godotenv.Read(p)
		if err != nil {
			log.Printf("config: read %s: %v", p, err)
			continue
		}
		for k, v := range values {
			if _, seen := out[k]; !seen {
				out[k] = v
			}
		}
	}
	return out
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if p, err := homedir.Expand(l.OverridePath); err == nil {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".regionshotrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.rc", "regionshot.rc"} {
		p := filepath.Join(home, ".config", "regionshot", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where "config save" writes.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".config", "regionshot", "config.rc"), nil
}
