// Package argusconfig parses the `analyze` subcommand's CLI surface from
// spec.md §6 into a validated Config. Grounded on the teacher's
// cmd/simulator flag/viper wiring: a pflag.FlagSet built once, bound into
// a viper.Viper so environment variables (ARGUS_RPC_URL etc.) transparently
// override defaults, then read back out through typed viper getters
// (backed by spf13/cast under the hood) into a plain struct the rest of
// the program consumes.
package argusconfig

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/argus-chain/argus/internal/arguserrors"
)

const envPrefix = "ARGUS"

// Flag keys, exported so cmd/argus/main.go can refer to them without
// retyping string literals.
const (
	RPCURLKey         = "rpc-url"
	BlockKey          = "block"
	SinkKey           = "sink"
	JSONKey           = "json"
	DryRunKey         = "dry-run"
	ParallelismKey    = "parallelism"
	RequestTimeoutKey = "request-timeout"
	RetryCapKey       = "retry-cap"
	RetryBaseDelayKey = "retry-base-delay"
	LogLevelKey       = "log-level"
	LogFormatKey      = "log-format"
	LogFileKey        = "log-file"
)

// minParallelism and maxParallelism bound --parallelism (spec.md §4.B:
// the prefetcher concurrency cap must be positive and not absurdly high).
const (
	minParallelism     = 1
	maxParallelism     = 64
	defaultParallelism = 8
)

// Config is the fully parsed and validated `analyze` invocation.
type Config struct {
	RPCURL string
	Block  uint64

	Sink string
	JSON bool

	DryRun      bool
	Parallelism int

	RequestTimeout time.Duration
	RetryCap       int
	RetryBaseDelay time.Duration

	LogLevel  slog.Level
	LogFormat string
	LogFile   string
}

// BuildFlagSet declares every flag from spec.md §6 plus the ambient
// logging/retry/timeout knobs from SPEC §4.0. Mirrors the teacher's
// config.BuildFlagSet: one function, no parsing side effects yet.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("analyze", pflag.ContinueOnError)

	fs.String(RPCURLKey, "", "JSON-RPC endpoint to read chain state from (env ARGUS_RPC_URL)")
	fs.Uint64(BlockKey, 0, "block number to analyze (required)")
	fs.String(SinkKey, "stdout", `output sink: "stdout", "ndjson:<path>", or "starrocks:<config>"`)
	fs.Bool(JSONKey, false, "emit the conflict graph as JSON to stdout instead of a table")
	fs.Bool(DryRunKey, false, "skip prefetch and execute against an empty state cache")
	fs.Int(ParallelismKey, defaultParallelism, "prefetcher concurrency cap")
	fs.Duration(RequestTimeoutKey, 10*time.Second, "per-RPC-request timeout")
	fs.Int(RetryCapKey, 5, "maximum retry attempts for a transient RPC or sink failure")
	fs.Duration(RetryBaseDelayKey, 100*time.Millisecond, "base delay for exponential backoff")
	fs.String(LogLevelKey, "info", "log level: debug, info, warn, error")
	fs.String(LogFormatKey, "text", `log format: "text" or "json"`)
	fs.String(LogFileKey, "", "rotate logs to this file instead of stderr")

	return fs
}

// BuildViper binds fs to a fresh viper.Viper, parses args against it, and
// layers ARGUS_-prefixed environment variables on top of flag defaults
// (flags explicitly set on the command line still win — viper's own
// precedence rules). Mirrors the teacher's config.BuildViper.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

// BuildConfig reads every bound key out of v and validates the result.
// Mirrors the teacher's config.BuildConfig, returning an
// *arguserrors.Error of KindConfiguration on any failure so the CLI layer
// can map it straight to exit code 1 (spec.md §7 kind 1).
func BuildConfig(v *viper.Viper) (*Config, error) {
	// Block and Parallelism come back through spf13/cast rather than
	// viper's own Get*: viper's AutomaticEnv stores an env override as a
	// bare string, and BindPFlags stores a flag value as its pflag.Value
	// string form, so a cast that tolerates both representations is more
	// robust here than viper's built-in GetUint64/GetInt for these two
	// particular keys (the ones a user is most likely to override by env).
	block, err := cast.ToUint64E(v.Get(BlockKey))
	if err != nil {
		return nil, arguserrors.Configuration(fmt.Errorf("--block: %w", err))
	}
	parallelism, err := cast.ToIntE(v.Get(ParallelismKey))
	if err != nil {
		return nil, arguserrors.Configuration(fmt.Errorf("--parallelism: %w", err))
	}

	cfg := &Config{
		RPCURL:         v.GetString(RPCURLKey),
		Block:          block,
		Sink:           v.GetString(SinkKey),
		JSON:           v.GetBool(JSONKey),
		DryRun:         v.GetBool(DryRunKey),
		Parallelism:    parallelism,
		RequestTimeout: v.GetDuration(RequestTimeoutKey),
		RetryCap:       v.GetInt(RetryCapKey),
		RetryBaseDelay: v.GetDuration(RetryBaseDelayKey),
		LogFormat:      v.GetString(LogFormatKey),
		LogFile:        v.GetString(LogFileKey),
	}

	level, err := parseLogLevel(v.GetString(LogLevelKey))
	if err != nil {
		return nil, arguserrors.Configuration(err)
	}
	cfg.LogLevel = level

	if err := cfg.validate(); err != nil {
		return nil, arguserrors.Configuration(err)
	}
	return cfg, nil
}

// Load is the single entry point cmd/argus/main.go calls: build the flag
// set, parse args against a fresh viper instance, and validate.
func Load(args []string) (*Config, error) {
	fs := BuildFlagSet()
	v, err := BuildViper(fs, args)
	if err != nil {
		return nil, err
	}
	return BuildConfig(v)
}

func (c *Config) validate() error {
	if c.RPCURL == "" && !c.DryRun {
		return errRequired("--rpc-url (or ARGUS_RPC_URL) is required unless --dry-run is set")
	}
	if c.Block == 0 {
		return errRequired("--block is required")
	}
	if c.Parallelism < minParallelism || c.Parallelism > maxParallelism {
		return errRequired(fmt.Sprintf("--parallelism must be in [%d, %d]", minParallelism, maxParallelism))
	}
	if c.RetryCap < 0 {
		return errRequired("--retry-cap must not be negative")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errRequired(`--log-format must be "text" or "json"`)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errRequired("--log-level must be one of debug, info, warn, error")
	}
}

type configError string

func (e configError) Error() string { return string(e) }

func errRequired(msg string) error { return configError(msg) }
