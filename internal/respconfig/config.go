// Package respconfig loads respd's startup configuration: defaults,
// an optional JSON config file validated against an embedded schema,
// and finally command-line flags, each layer overriding the one before
// it. A .env file read with joho/godotenv is exported into the process
// environment first; it sets no Config field itself.
package respconfig

import (
	"encoding/json"
	"flag"
	"os"
	"strings"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/joho/godotenv"

	"github.com/ccresp/respd/internal/mirror"
)

// Config is the fully resolved startup configuration for respd.
type Config struct {
	Port         int    `json:"port"`
	AdminAddr    string `json:"admin-addr"`
	DumpFile     string `json:"dump-file"`
	NoGraphic    bool   `json:"no-graphic"`
	OpsUntilSave uint64 `json:"ops-until-save"`
	SaveInterval string `json:"save-interval"`
	MemoryOnly   bool   `json:"memory-only"`
	ScriptsDir   string `json:"scripts-dir"`
	LogLevel     string `json:"log-level"`
	Gops         bool   `json:"gops"`

	S3   mirror.S3Config   `json:"-"`
	NATS mirror.NATSConfig `json:"-"`
}

type s3Raw struct {
	Bucket       string `json:"bucket"`
	Key          string `json:"key"`
	Endpoint     string `json:"endpoint"`
	Region       string `json:"region"`
	AccessKey    string `json:"access-key"`
	SecretKey    string `json:"secret-key"`
	UsePathStyle bool   `json:"use-path-style"`
}

type natsRaw struct {
	URL     string `json:"url"`
	Subject string `json:"subject"`
}

type fileConfig struct {
	Config
	S3   s3Raw   `json:"s3"`
	NATS natsRaw `json:"nats"`
}

// Defaults returns the configuration used when no config file, .env
// entry, or flag overrides a field.
func Defaults() Config {
	return Config{
		Port:         6379,
		AdminAddr:    ":6380",
		DumpFile:     "respd.dump",
		OpsUntilSave: 10000,
		LogLevel:     "info",
	}
}

// Load builds the final Config: defaults, then --config (validated
// against the embedded schema, a missing file is not an error), then
// flags. --env-file (godotenv, a missing file is not an error) only
// exports its entries into the process environment.
// Returns the resolved Config.
func Load(args []string) Config {
	fs := flag.NewFlagSet("respd", flag.ExitOnError)

	var envFile, configFile string
	fs.StringVar(&envFile, "env-file", ".env", "load environment variables from this file before parsing flags")
	fs.StringVar(&configFile, "config", "", "optional JSON config file, validated against an embedded schema")

	cfg := Defaults()
	var s3Bucket, s3Key, s3Endpoint, s3Region, s3AccessKey, s3SecretKey string
	var s3UsePathStyle bool
	var natsURL, natsSubject string

	fs.IntVar(&cfg.Port, "port", cfg.Port, "listen port")
	fs.IntVar(&cfg.Port, "p", cfg.Port, "listen port (shorthand)")
	fs.StringVar(&cfg.AdminAddr, "admin-addr", cfg.AdminAddr, "bind address for the admin/observability HTTP server, empty disables it")
	fs.StringVar(&cfg.DumpFile, "dump-file", cfg.DumpFile, "path to the snapshot dump file")
	fs.StringVar(&cfg.DumpFile, "d", cfg.DumpFile, "path to the snapshot dump file (shorthand)")
	fs.BoolVar(&cfg.NoGraphic, "no-graphic", cfg.NoGraphic, "suppress the startup banner")
	fs.BoolVar(&cfg.NoGraphic, "g", cfg.NoGraphic, "suppress the startup banner (shorthand)")
	fs.Uint64Var(&cfg.OpsUntilSave, "ops-until-save", cfg.OpsUntilSave, "executed commands between automatic snapshots, 0 disables")
	fs.Uint64Var(&cfg.OpsUntilSave, "s", cfg.OpsUntilSave, "executed commands between automatic snapshots (shorthand)")
	fs.StringVar(&cfg.SaveInterval, "save-interval", cfg.SaveInterval, "interval between periodic snapshots, e.g. 5m; empty disables")
	fs.BoolVar(&cfg.MemoryOnly, "memory-only", cfg.MemoryOnly, "never read or write the dump file")
	fs.BoolVar(&cfg.MemoryOnly, "m", cfg.MemoryOnly, "never read or write the dump file (shorthand)")
	fs.StringVar(&cfg.ScriptsDir, "scripts-dir", cfg.ScriptsDir, "directory of foreign-function scripts; accepted but not read, no scripts are loaded")
	fs.StringVar(&cfg.ScriptsDir, "f", cfg.ScriptsDir, "directory of foreign-function scripts; accepted but not read (shorthand)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "one of trace, debug, info, warn, error, fatal")
	fs.BoolVar(&cfg.Gops, "gops", cfg.Gops, "listen via github.com/google/gops/agent for live process inspection")

	fs.StringVar(&s3Bucket, "s3-bucket", "", "enable the S3 snapshot mirror for this bucket")
	fs.StringVar(&s3Key, "s3-key", "", "object key to upload the dump under, default respd.dump")
	fs.StringVar(&s3Endpoint, "s3-endpoint", "", "override the S3 endpoint, for S3-compatible stores")
	fs.StringVar(&s3Region, "s3-region", "", "AWS region, default us-east-1")
	fs.StringVar(&s3AccessKey, "s3-access-key", "", "AWS access key, normally left to the environment/credentials chain")
	fs.StringVar(&s3SecretKey, "s3-secret-key", "", "AWS secret key, normally left to the environment/credentials chain")
	fs.BoolVar(&s3UsePathStyle, "s3-use-path-style", false, "use path-style S3 addressing")
	fs.StringVar(&natsURL, "nats-url", "", "enable the snapshot-completed NATS event on this server URL")
	fs.StringVar(&natsSubject, "nats-subject", mirror.DefaultSnapshotSubject, "subject to publish the snapshot-completed event on")

	// A first, lenient pass picks up --env-file and --config before the
	// .env file and config file can set any of the flags parsed above.
	envFile, configFile = scanForEarlyFlags(args, envFile, configFile)

	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		cclog.Fatalf("respd: loading env file %q: %s", envFile, err.Error())
	}

	if configFile != "" {
		applyConfigFile(&cfg, configFile, &s3Bucket, &s3Key, &s3Endpoint, &s3Region, &s3AccessKey, &s3SecretKey, &s3UsePathStyle, &natsURL, &natsSubject)
	}

	// Flags always win, so parse again now that the env file and config
	// file have supplied their (possibly lower-priority) values.
	if err := fs.Parse(args); err != nil {
		cclog.Fatalf("respd: parsing flags: %s", err.Error())
	}

	cfg.S3 = mirror.S3Config{
		Bucket: s3Bucket, Key: s3Key, Endpoint: s3Endpoint, Region: s3Region,
		AccessKey: s3AccessKey, SecretKey: s3SecretKey, UsePathStyle: s3UsePathStyle,
	}
	cfg.NATS = mirror.NATSConfig{URL: natsURL, Subject: natsSubject}

	return cfg
}

// scanForEarlyFlags looks for --env-file/--config (or -env-file/-config,
// with either "=value" or a following argument) anywhere in args,
// independent of any other flag defined on the real FlagSet, so an
// unrecognized flag earlier in argv can't hide them from this pass.
func scanForEarlyFlags(args []string, envFile, configFile string) (string, string) {
	for i := 0; i < len(args); i++ {
		name, value, hasValue := splitFlag(args[i])
		switch name {
		case "env-file":
			if hasValue {
				envFile = value
			} else if i+1 < len(args) {
				envFile = args[i+1]
			}
		case "config":
			if hasValue {
				configFile = value
			} else if i+1 < len(args) {
				configFile = args[i+1]
			}
		}
	}
	return envFile, configFile
}

func splitFlag(arg string) (name, value string, hasValue bool) {
	arg = strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	name, value, hasValue = strings.Cut(arg, "=")
	return name, value, hasValue
}

func applyConfigFile(cfg *Config, path string, s3Bucket, s3Key, s3Endpoint, s3Region, s3AccessKey, s3SecretKey *string, s3UsePathStyle *bool, natsURL, natsSubject *string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		cclog.Fatalf("respd: reading config file %q: %s", path, err.Error())
	}

	if err := validate(raw); err != nil {
		cclog.Fatalf("respd: %s", err.Error())
	}

	var fc fileConfig
	fc.Config = *cfg
	if err := json.Unmarshal(raw, &fc); err != nil {
		cclog.Fatalf("respd: decoding config file %q: %s", path, err.Error())
	}

	*cfg = fc.Config
	if fc.S3.Bucket != "" {
		*s3Bucket = fc.S3.Bucket
	}
	if fc.S3.Key != "" {
		*s3Key = fc.S3.Key
	}
	if fc.S3.Endpoint != "" {
		*s3Endpoint = fc.S3.Endpoint
	}
	if fc.S3.Region != "" {
		*s3Region = fc.S3.Region
	}
	if fc.S3.AccessKey != "" {
		*s3AccessKey = fc.S3.AccessKey
	}
	if fc.S3.SecretKey != "" {
		*s3SecretKey = fc.S3.SecretKey
	}
	*s3UsePathStyle = fc.S3.UsePathStyle
	if fc.NATS.URL != "" {
		*natsURL = fc.NATS.URL
	}
	if fc.NATS.Subject != "" {
		*natsSubject = fc.NATS.Subject
	}
}
