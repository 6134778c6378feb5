package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/fitroom/internal/flagx"
)

// parseFlags overrides Config fields from command-line flags. Arguments that
// are not config flags (subcommands, their own flags) are filtered out first
// so the CLI can share os.Args with this loader.
//
//	-kling-url string        Kling API base URL
//	-access-key string       Kling access key
//	-secret-key string       Kling secret key
//	-model string            try-on model name
//	-callback-url string     optional callback URL sent with each job
//	-poll-interval duration  delay between status polls
//	-poll-max int            max status polls, 0 = unbounded
//	-request-timeout duration
//	-download-timeout duration
//	-submit-rate float       max submissions per second, 0 = unlimited
//	-jobs int                max concurrently running try-on jobs
//	-scratch string          directory for generated images
//	-journal string          SQLite journal path
//	-d string                PostgreSQL DSN (server journal)
//	-outfits string          docstore collection URL
//	-mongo string            MongoDB URI
//	-image-store string      "file" or "s3"
//	-a string                HTTP listen address
//	-s string                JWT HMAC secret
//	-log-level string
//	-log-format string       "json" or "text"
func parseFlags(config *Config, args []string) {
	fs := newFlagSet(config)
	if err := fs.Parse(flagx.FilterArgs(args, flagx.Names(fs))); err != nil {
		panic(err)
	}
}

// FlagNames lists every command-line flag consumed by the config loaders,
// including -c/-config, so callers can strip them from os.Args.
func FlagNames() []string {
	names := flagx.Names(newFlagSet(&Config{}))
	return append(names, "-c", "--c", "-config", "--config")
}

func newFlagSet(config *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.KlingBaseURL, "kling-url", config.KlingBaseURL, "Kling API base URL")
	fs.StringVar(&config.KlingAccessKey, "access-key", config.KlingAccessKey, "Kling access key")
	fs.StringVar(&config.KlingSecretKey, "secret-key", config.KlingSecretKey, "Kling secret key")
	fs.StringVar(&config.KlingModelName, "model", config.KlingModelName, "try-on model name")
	fs.StringVar(&config.KlingCallbackURL, "callback-url", config.KlingCallbackURL, "callback URL")

	fs.DurationVar(&config.PollInterval, "poll-interval", config.PollInterval, "delay between status polls")
	fs.IntVar(&config.PollMaxAttempts, "poll-max", config.PollMaxAttempts, "max status polls (0 = unbounded)")
	fs.DurationVar(&config.RequestTimeout, "request-timeout", config.RequestTimeout, "remote request timeout")
	fs.DurationVar(&config.DownloadTimeout, "download-timeout", config.DownloadTimeout, "result download timeout")
	fs.Float64Var(&config.SubmitRate, "submit-rate", config.SubmitRate, "max submissions per second (0 = unlimited)")
	fs.IntVar(&config.MaxConcurrentJobs, "jobs", config.MaxConcurrentJobs, "max concurrent try-on jobs")

	fs.StringVar(&config.ScratchDir, "scratch", config.ScratchDir, "scratch directory")
	fs.StringVar(&config.JournalDSN, "journal", config.JournalDSN, "SQLite journal path")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&config.OutfitStoreURL, "outfits", config.OutfitStoreURL, "outfit collection URL")
	fs.StringVar(&config.MongoURI, "mongo", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.ImageStore, "image-store", config.ImageStore, "outfit image store (file|s3)")

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP listen address")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret")

	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (json|text)")

	return fs
}
