package cmd

import (
	"io"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"katwalk/kat/types"
)

// EnvPrefix namespaces environment overrides: CAVP_KATDIR, CAVP_LOG_LEVEL, ...
const EnvPrefix = "CAVP"

const (
	flagKatDir      = "katdir"
	flagScheme      = "scheme"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagMetricsFile = "metrics-file"
	flagConfig      = "config"
	flagFamily      = "family"

	formatPlain = "plain"
	formatJSON  = "json"
)

// Config is the resolved run configuration. Flags take precedence over the
// environment, which takes precedence over the config file.
type Config struct {
	KatDir      string
	Schemes     []string
	LogLevel    zerolog.Level
	LogFormat   string
	MetricsFile string
}

func addFlags(f *pflag.FlagSet) {
	f.String(flagKatDir, ".", "root directory the registered vector file paths resolve against")
	f.StringSlice(flagScheme, nil, "scheme to run; repeat or comma-separate (default: every registered scheme)")
	f.String(flagLogLevel, zerolog.InfoLevel.String(), "log level (debug|info|warn|error)")
	f.String(flagLogFormat, formatPlain, "log format (plain|json)")
	f.String(flagMetricsFile, "", "write prometheus metrics for the run to this file")
	f.String(flagConfig, "", "config file (yaml, toml or json)")
}

func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (Config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := cast.ToString(v.Get(flagConfig)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errorsmod.Wrapf(types.ErrUsage, "config %s: %v", path, err)
		}
	}

	schemes, err := cast.ToStringSliceE(v.Get(flagScheme))
	if err != nil {
		return Config{}, errorsmod.Wrapf(types.ErrUsage, "%s: %v", flagScheme, err)
	}

	levelName := cast.ToString(v.Get(flagLogLevel))
	level, err := zerolog.ParseLevel(strings.ToLower(levelName))
	if err != nil || levelName == "" {
		return Config{}, errorsmod.Wrapf(types.ErrUsage, "%s: unknown level %q", flagLogLevel, levelName)
	}

	format := strings.ToLower(cast.ToString(v.Get(flagLogFormat)))
	if format != formatPlain && format != formatJSON {
		return Config{}, errorsmod.Wrapf(types.ErrUsage, "%s: want %s or %s, got %q", flagLogFormat, formatPlain, formatJSON, format)
	}

	katDir := cast.ToString(v.Get(flagKatDir))
	if katDir == "" {
		return Config{}, errorsmod.Wrapf(types.ErrUsage, "%s must not be empty", flagKatDir)
	}

	return Config{
		KatDir:      katDir,
		Schemes:     splitSchemes(schemes),
		LogLevel:    level,
		LogFormat:   format,
		MetricsFile: cast.ToString(v.Get(flagMetricsFile)),
	}, nil
}

// splitSchemes accepts both repeated values and comma- or space-separated
// lists, as environment variables only carry a single string.
func splitSchemes(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

func newLogger(cfg Config, w io.Writer) log.Logger {
	opts := []log.Option{log.LevelOption(cfg.LogLevel), log.ColorOption(false)}
	if cfg.LogFormat == formatJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...)
}
