// Package config loads env-tagged configuration structs.
//
// Values come from the process environment, optionally seeded from .env
// files through github.com/joho/godotenv, and are parsed into structs with
// github.com/caarlos0/env/v11. Each struct type is parsed once; later calls
// for the same type return the cached copy until Reset is called.
//
//	type Config struct {
//	    RulesetPath string `env:"RULEKIT_RULESET" envDefault:"rules.yaml"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
package config
