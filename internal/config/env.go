package config

import (
	"fmt"
	"strings"
)

// EnvPrefix starts every environment override, as in REGIONSHOT_DIMMING.
const EnvPrefix = "REGIONSHOT_"

// ApplyEnv overrides [region] keys and the root keys from variables named
// EnvPrefix plus the upper cased key. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, k := range regionKeys {
		v, ok := lookup(EnvPrefix + strings.ToUpper(k.name))
		if !ok {
			continue
		}
		if err := k.set(&c.Region, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, strings.ToUpper(k.name), err)
		}
	}
	if v, ok := lookup(EnvPrefix + "THEME"); ok {
		c.Theme = v
	}
	if v, ok := lookup(EnvPrefix + "SAVE_DIR"); ok {
		c.SaveDir = v
	}
	return nil
}

// chainLookup consults each lookup in turn.
func chainLookup(lookups ...func(string) (string, bool)) func(string) (string, bool) {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if v, ok := l(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}
