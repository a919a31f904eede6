package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/rulekit/pkg/config"
	"github.com/dmitrymomot/rulekit/pkg/session"
)

const (
	FlagRuleset   = "ruleset"
	FlagMessages  = "messages"
	FlagDriver    = "driver"
	FlagEntity    = "entity"
	FlagAddr      = "addr"
	FlagLogLevel  = "log-level"
	FlagCacheSize = "cache-size"
	FlagEnvFile   = "env-file"
	FlagOutput    = "output"
)

// ErrViolations is returned by check when any object was rejected.
var ErrViolations = errors.New("validation failed")

type rootFlags struct {
	ruleset   string
	messages  string
	driver    string
	logLevel  string
	cacheSize int
	envFiles  []string
}

// resolve loads Config and applies the flags that were set.
func (f *rootFlags) resolve(cmd *cobra.Command) (Config, error) {
	if err := config.LoadEnvFiles(f.envFiles...); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed(FlagRuleset) {
		cfg.Ruleset = f.ruleset
	}
	if flags.Changed(FlagMessages) {
		cfg.Messages = f.messages
	}
	if flags.Changed(FlagLogLevel) {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed(FlagCacheSize) {
		cfg.CacheSize = f.cacheSize
	}
	if flags.Changed(FlagDriver) {
		d, err := session.ParseDriver(f.driver)
		if err != nil {
			return Config{}, err
		}
		cfg.Session.Driver = d
	}
	return cfg, nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "rulekit",
		Short:         "Validate objects against declarative constraint rules",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ruleset, FlagRuleset, "", "Ruleset - YAML file mapping entities to property rules (env RULEKIT_RULESET)")
	pf.StringVar(&flags.messages, FlagMessages, "", "Messages - YAML message catalog (env RULEKIT_MESSAGES)")
	pf.StringVar(&flags.driver, FlagDriver, "", "Session driver - postgres, mongo or redis (env RULEKIT_DRIVER)")
	pf.StringVar(&flags.logLevel, FlagLogLevel, "", "Log level - debug, info, warn or error (env RULEKIT_LOG_LEVEL)")
	pf.IntVar(&flags.cacheSize, FlagCacheSize, 0, "Validator cache size (env RULEKIT_CACHE_SIZE)")
	pf.StringSliceVar(&flags.envFiles, FlagEnvFile, nil, "Additional .env files to load")

	root.AddCommand(newCheckCmd(flags), newServeCmd(flags))
	return root
}
