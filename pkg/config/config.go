package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS       CORSConfig
	Log        LogConfig
	Storage    StorageConfig
	Validation ValidationConfig
	Export     ExportConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig locates the durable key/value store and the keys the
// schedule manager persists under.
type StorageConfig struct {
	DataDir       string
	SchedulesKey  string
	BackupKey     string
	RosterKey     string
	MigrateOnLoad bool
}

// ValidationConfig tunes advisory limits on schedule size.
type ValidationConfig struct {
	OversizeThreshold int
}

// ExportConfig controls generated download filenames.
type ExportConfig struct {
	FilenamePrefix string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		DataDir:       v.GetString("DATA_DIR"),
		SchedulesKey:  v.GetString("STORAGE_SCHEDULES_KEY"),
		BackupKey:     v.GetString("STORAGE_BACKUP_KEY"),
		RosterKey:     v.GetString("STORAGE_ROSTER_KEY"),
		MigrateOnLoad: v.GetBool("MIGRATE_ON_LOAD"),
	}

	threshold := v.GetInt("OVERSIZE_WARNING_THRESHOLD")
	if threshold <= 0 {
		threshold = 130
	}
	cfg.Validation = ValidationConfig{OversizeThreshold: threshold}

	cfg.Export = ExportConfig{FilenamePrefix: v.GetString("EXPORT_FILENAME_PREFIX")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("STORAGE_SCHEDULES_KEY", "housekeepingSchedules")
	v.SetDefault("STORAGE_BACKUP_KEY", "housekeepingSchedulesBackup")
	v.SetDefault("STORAGE_ROSTER_KEY", "housekeeperNames")
	v.SetDefault("MIGRATE_ON_LOAD", false)

	v.SetDefault("OVERSIZE_WARNING_THRESHOLD", 130)
	v.SetDefault("EXPORT_FILENAME_PREFIX", "housekeeping-schedules")
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
