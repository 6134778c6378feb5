package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from envFile (when it exists) and the process
// environment. Variables already set in the environment win over the file.
func parseEnv(cfg *Config, envFile string) {
	_ = godotenv.Load(envFile)

	str(&cfg.KlingBaseURL, "KLING_BASE_URL")
	str(&cfg.KlingAccessKey, "KLING_ACCESS_KEY")
	str(&cfg.KlingSecretKey, "KLING_SECRET_KEY")
	str(&cfg.KlingModelName, "KLING_MODEL_NAME")
	str(&cfg.KlingCallbackURL, "KLING_CALLBACK_URL")
	dur(&cfg.PollInterval, "POLL_INTERVAL")
	num(&cfg.PollMaxAttempts, "POLL_MAX_ATTEMPTS")
	dur(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
	dur(&cfg.DownloadTimeout, "DOWNLOAD_TIMEOUT")
	float(&cfg.SubmitRate, "SUBMIT_RATE")
	num(&cfg.MaxConcurrentJobs, "MAX_CONCURRENT_JOBS")
	str(&cfg.ScratchDir, "SCRATCH_DIR")
	str(&cfg.JournalDSN, "JOURNAL_DSN")
	str(&cfg.DatabaseDSN, "DATABASE_DSN")
	str(&cfg.OutfitStoreURL, "OUTFIT_STORE_URL")
	str(&cfg.MongoURI, "MONGO_URI")
	str(&cfg.MongoDatabase, "MONGO_DATABASE")
	str(&cfg.ImageStore, "IMAGE_STORE")
	str(&cfg.ImageStoreDir, "IMAGE_STORE_DIR")
	str(&cfg.S3RootUser, "S3_ROOT_USER")
	str(&cfg.S3RootPassword, "S3_ROOT_PASSWORD")
	str(&cfg.S3Bucket, "S3_BUCKET")
	str(&cfg.S3Region, "S3_REGION")
	str(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	str(&cfg.HTTPAddr, "HTTP_ADDR")
	str(&cfg.JWTSecret, "JWT_SECRET")
	str(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	str(&cfg.GeminiModel, "GEMINI_MODEL")
	str(&cfg.LogLevel, "LOG_LEVEL")
	str(&cfg.LogFormat, "LOG_FORMAT")
}

func str(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func dur(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("env %s: %w", key, err))
	}
	*dst = d
}

func num(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("env %s: %w", key, err))
	}
	*dst = n
}

func float(dst *float64, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		panic(fmt.Errorf("env %s: %w", key, err))
	}
	*dst = f
}
