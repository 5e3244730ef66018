package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// config holds the example's settings. Every flag can also be set through a
// MANAGED_* environment variable, e.g. MANAGED_LOG_LEVEL=info.
type config struct {
	LogLevel    string
	Verbose     bool
	Interactive bool
}

func loadConfig(flags *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix("MANAGED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("log-level", "debug")

	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	return &config{
		LogLevel:    v.GetString("log-level"),
		Verbose:     v.GetBool("verbose"),
		Interactive: v.GetBool("interactive"),
	}, nil
}

// logger builds the zap logger for cfg. Logging is off unless verbose.
func (c *config) logger() (*zap.Logger, error) {
	if !c.Verbose {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	return zc.Build()
}
