package config

import (
	"os"
	"time"
)

// Config holds runtime settings shared by the CLI and the HTTP server.
//
// PollMaxAttempts == 0 keeps polling until the remote job reaches a terminal
// status; SubmitRate == 0 disables submit throttling.
type Config struct {
	KlingBaseURL     string
	KlingAccessKey   string
	KlingSecretKey   string
	KlingModelName   string
	KlingCallbackURL string

	PollInterval      time.Duration
	PollMaxAttempts   int
	RequestTimeout    time.Duration
	DownloadTimeout   time.Duration
	SubmitRate        float64
	MaxConcurrentJobs int

	ScratchDir  string
	JournalDSN  string
	DatabaseDSN string

	OutfitStoreURL string
	MongoURI       string
	MongoDatabase  string

	ImageStore     string
	ImageStoreDir  string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string

	HTTPAddr  string
	JWTSecret string

	GeminiAPIKey string
	GeminiModel  string

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the JWT secret and S3 credentials are insecure outside local setups.
func (c *Config) LoadDefaults() {
	c.KlingBaseURL = "https://api.klingai.com"
	c.KlingModelName = "kolors-virtual-try-on-v1-5"
	c.PollInterval = 5 * time.Second
	c.PollMaxAttempts = 0
	c.RequestTimeout = 60 * time.Second
	c.DownloadTimeout = 30 * time.Second
	c.SubmitRate = 0
	c.MaxConcurrentJobs = 4
	c.ScratchDir = "scratch"
	c.JournalDSN = "fitroom.db"
	c.OutfitStoreURL = "mem://outfits/id"
	c.MongoURI = "mongodb://localhost:27017/"
	c.MongoDatabase = "fitroom"
	c.ImageStore = "file"
	c.ImageStoreDir = "outfit_images"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "outfits"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.HTTPAddr = ":8080"
	c.JWTSecret = "secretKey"
	c.GeminiModel = "gemini-1.5-flash"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config from defaults, environment, an optional JSON
// file and finally command-line flags. It panics on malformed input.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
