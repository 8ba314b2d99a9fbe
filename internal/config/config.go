package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Engine  EngineConfig
	App     AppConfig
	Cache   CacheConfig
	Storage StorageConfig
	Drive   DriveConfig
	Ingest  IngestConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	MaxUploadMB    int
	LogLevel       string
}

// EngineConfig holds the replenishment defaults applied when a request does
// not override them.
type EngineConfig struct {
	SafetyFactor  float64
	OrderingCost  float64
	HoldingCost   float64
	ValueBasis    string
	MaxConcurrent int
}

type AppConfig struct {
	DataDir string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	AnalysisTTLSeconds int
}

// StorageConfig points at an S3-compatible bucket used as a batch source and
// report sink.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
}

type IngestConfig struct {
	ColumnMapFile string
	Workers       int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("SERVER_MAX_UPLOAD_MB", 20)
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("ENGINE_SAFETY_FACTOR", 1.65)
		viper.SetDefault("ENGINE_ORDERING_COST", 100.0)
		viper.SetDefault("ENGINE_HOLDING_COST", 10.0)
		viper.SetDefault("ENGINE_VALUE_BASIS", "selling")
		viper.SetDefault("ENGINE_MAX_CONCURRENT", 4)
		viper.SetDefault("APP_DATA_DIR", "./data/output")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_ANALYSIS_TTL_SECONDS", 300)
		viper.SetDefault("S3_ENDPOINT", "")
		viper.SetDefault("S3_ACCESS_KEY", "")
		viper.SetDefault("S3_SECRET_KEY", "")
		viper.SetDefault("S3_BUCKET", "")
		viper.SetDefault("S3_REGION", "us-east-1")
		viper.SetDefault("S3_PREFIX", "")
		viper.SetDefault("S3_USE_SSL", true)
		viper.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
		viper.SetDefault("GOOGLE_DRIVE_FOLDER_ID", "")
		viper.SetDefault("INGEST_COLUMN_MAP_FILE", "")
		viper.SetDefault("INGEST_WORKERS", 4)

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_DATA_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
				MaxUploadMB:    viper.GetInt("SERVER_MAX_UPLOAD_MB"),
				LogLevel:       viper.GetString("LOG_LEVEL"),
			},
			Engine: EngineConfig{
				SafetyFactor:  viper.GetFloat64("ENGINE_SAFETY_FACTOR"),
				OrderingCost:  viper.GetFloat64("ENGINE_ORDERING_COST"),
				HoldingCost:   viper.GetFloat64("ENGINE_HOLDING_COST"),
				ValueBasis:    viper.GetString("ENGINE_VALUE_BASIS"),
				MaxConcurrent: viper.GetInt("ENGINE_MAX_CONCURRENT"),
			},
			App: AppConfig{
				DataDir: viper.GetString("APP_DATA_DIR"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				AnalysisTTLSeconds: viper.GetInt("CACHE_ANALYSIS_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("S3_ENDPOINT"),
				AccessKey: viper.GetString("S3_ACCESS_KEY"),
				SecretKey: viper.GetString("S3_SECRET_KEY"),
				Bucket:    viper.GetString("S3_BUCKET"),
				Region:    viper.GetString("S3_REGION"),
				Prefix:    viper.GetString("S3_PREFIX"),
				UseSSL:    viper.GetBool("S3_USE_SSL"),
			},
			Drive: DriveConfig{
				CredentialsJSON: viper.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
				FolderID:        viper.GetString("GOOGLE_DRIVE_FOLDER_ID"),
			},
			Ingest: IngestConfig{
				ColumnMapFile: viper.GetString("INGEST_COLUMN_MAP_FILE"),
				Workers:       viper.GetInt("INGEST_WORKERS"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("failed to create directory")
		}
	}
}
