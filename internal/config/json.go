package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fitroom/internal/flagx"
	"github.com/dmitrijs2005/fitroom/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "5s" and integer nanoseconds are accepted. Only
// fields present (non-zero) in the file override the current Config.
type JsonConfig struct {
	KlingBaseURL     string `json:"kling_base_url"`
	KlingAccessKey   string `json:"kling_access_key"`
	KlingSecretKey   string `json:"kling_secret_key"`
	KlingModelName   string `json:"kling_model_name"`
	KlingCallbackURL string `json:"kling_callback_url"`

	PollInterval      timex.Duration `json:"poll_interval"`
	PollMaxAttempts   int            `json:"poll_max_attempts"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	DownloadTimeout   timex.Duration `json:"download_timeout"`
	SubmitRate        float64        `json:"submit_rate"`
	MaxConcurrentJobs int            `json:"max_concurrent_jobs"`

	ScratchDir  string `json:"scratch_dir"`
	JournalDSN  string `json:"journal_dsn"`
	DatabaseDSN string `json:"database_dsn"`

	OutfitStoreURL string `json:"outfit_store_url"`
	MongoURI       string `json:"mongo_uri"`
	MongoDatabase  string `json:"mongo_database"`

	ImageStore     string `json:"image_store"`
	ImageStoreDir  string `json:"image_store_dir"`
	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`

	HTTPAddr  string `json:"http_addr"`
	JWTSecret string `json:"jwt_secret"`

	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// parseJson loads the file named by -c/-config (if any) into config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setStr(&config.KlingBaseURL, c.KlingBaseURL)
	setStr(&config.KlingAccessKey, c.KlingAccessKey)
	setStr(&config.KlingSecretKey, c.KlingSecretKey)
	setStr(&config.KlingModelName, c.KlingModelName)
	setStr(&config.KlingCallbackURL, c.KlingCallbackURL)

	if c.PollInterval.Duration != 0 {
		config.PollInterval = c.PollInterval.Duration
	}
	if c.PollMaxAttempts != 0 {
		config.PollMaxAttempts = c.PollMaxAttempts
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.DownloadTimeout.Duration != 0 {
		config.DownloadTimeout = c.DownloadTimeout.Duration
	}
	if c.SubmitRate != 0 {
		config.SubmitRate = c.SubmitRate
	}
	if c.MaxConcurrentJobs != 0 {
		config.MaxConcurrentJobs = c.MaxConcurrentJobs
	}

	setStr(&config.ScratchDir, c.ScratchDir)
	setStr(&config.JournalDSN, c.JournalDSN)
	setStr(&config.DatabaseDSN, c.DatabaseDSN)
	setStr(&config.OutfitStoreURL, c.OutfitStoreURL)
	setStr(&config.MongoURI, c.MongoURI)
	setStr(&config.MongoDatabase, c.MongoDatabase)
	setStr(&config.ImageStore, c.ImageStore)
	setStr(&config.ImageStoreDir, c.ImageStoreDir)
	setStr(&config.S3RootUser, c.S3RootUser)
	setStr(&config.S3RootPassword, c.S3RootPassword)
	setStr(&config.S3Bucket, c.S3Bucket)
	setStr(&config.S3Region, c.S3Region)
	setStr(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setStr(&config.HTTPAddr, c.HTTPAddr)
	setStr(&config.JWTSecret, c.JWTSecret)
	setStr(&config.GeminiAPIKey, c.GeminiAPIKey)
	setStr(&config.GeminiModel, c.GeminiModel)
	setStr(&config.LogLevel, c.LogLevel)
	setStr(&config.LogFormat, c.LogFormat)
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
