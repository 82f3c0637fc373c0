package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Source   SourceConfig
	Storage  StorageConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL            string
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConcurrency int
}

type AppConfig struct {
	LogLevel    string
	LogFormat   string
	MappingFile string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// SourceConfig selects where the financial workbook is read from.
type SourceConfig struct {
	Kind                  string
	FilePath              string
	Sheet                 string
	DriveFileID           string
	DriveFolderPath       string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string
	SpreadsheetID         string
	SheetRange            string
	ObjectKey             string
}

type StorageConfig struct {
	Provider     string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	UseSSL       bool
	ExportPrefix string
}

type AuthConfig struct {
	Backend         string
	Users           map[string]string
	JWTSecret       string
	TokenTTLMinutes int
	AdminToken      string
}

const (
	SourceFile   = "file"
	SourceDrive  = "drive"
	SourceSheets = "sheets"
	SourceS3     = "s3"
	SourceMinio  = "minio"

	AuthStatic   = "static"
	AuthPostgres = "postgres"
)

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = build()
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "dgm_dashboard")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONCURRENCY", 10)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("MAPPING_FILE", "")
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 300)
	viper.SetDefault("SOURCE_KIND", SourceFile)
	viper.SetDefault("SOURCE_FILE", "./data/DGM_Report.xlsx")
	viper.SetDefault("SOURCE_SHEET", "")
	viper.SetDefault("SHEETS_RANGE", "CY_vs_LY_Growth")
	viper.SetDefault("STORAGE_PROVIDER", "sevalla")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("AUTH_BACKEND", AuthStatic)
	viper.SetDefault("AUTH_USERS", "")
	viper.SetDefault("JWT_TTL_MINUTES", 480)
}

func build() *Config {
	setDefaults()

	// Read from environment variables
	viper.AutomaticEnv()

	users, err := ParseUsers(viper.GetString("AUTH_USERS"))
	if err != nil {
		log.Printf("ignoring AUTH_USERS: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:            viper.GetString("DATABASE_URL"),
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASSWORD"),
			DBName:         viper.GetString("DB_NAME"),
			SSLMode:        viper.GetString("DB_SSLMODE"),
			MaxConcurrency: viper.GetInt("DB_MAX_CONCURRENCY"),
		},
		App: AppConfig{
			LogLevel:    viper.GetString("LOG_LEVEL"),
			LogFormat:   viper.GetString("LOG_FORMAT"),
			MappingFile: viper.GetString("MAPPING_FILE"),
		},
		Cache: CacheConfig{
			Enabled:             viper.GetBool("CACHE_ENABLED"),
			RedisURL:            viper.GetString("REDIS_URL"),
			RedisHost:           viper.GetString("REDIS_HOST"),
			RedisPort:           viper.GetString("REDIS_PORT"),
			RedisPassword:       viper.GetString("REDIS_PASSWORD"),
			RedisDB:             viper.GetInt("REDIS_DB"),
			DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
		},
		Source: SourceConfig{
			Kind:                  strings.ToLower(viper.GetString("SOURCE_KIND")),
			FilePath:              viper.GetString("SOURCE_FILE"),
			Sheet:                 viper.GetString("SOURCE_SHEET"),
			DriveFileID:           viper.GetString("DRIVE_FILE_ID"),
			DriveFolderPath:       viper.GetString("DRIVE_FOLDER_PATH"),
			GoogleCredentialsJSON: viper.GetString("GOOGLE_SERVICE_ACCOUNT_JSON"),
			GoogleCredentialsFile: viper.GetString("GOOGLE_SERVICE_ACCOUNT_FILE"),
			SpreadsheetID:         viper.GetString("SHEETS_SPREADSHEET_ID"),
			SheetRange:            viper.GetString("SHEETS_RANGE"),
			ObjectKey:             viper.GetString("SOURCE_OBJECT_KEY"),
		},
		Storage: StorageConfig{
			Provider:     viper.GetString("STORAGE_PROVIDER"),
			Endpoint:     viper.GetString("STORAGE_ENDPOINT"),
			AccessKey:    viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:    viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:       viper.GetString("STORAGE_BUCKET"),
			Region:       viper.GetString("STORAGE_REGION"),
			UseSSL:       viper.GetBool("STORAGE_USE_SSL"),
			ExportPrefix: viper.GetString("EXPORT_BUCKET_PREFIX"),
		},
		Auth: AuthConfig{
			Backend:         strings.ToLower(viper.GetString("AUTH_BACKEND")),
			Users:           users,
			JWTSecret:       viper.GetString("JWT_SECRET"),
			TokenTTLMinutes: viper.GetInt("JWT_TTL_MINUTES"),
			AdminToken:      viper.GetString("ADMIN_TOKEN"),
		},
	}
}

// Validate reports every setting the server cannot start without.
func (c *Config) Validate() error {
	var errs []error

	switch c.Source.Kind {
	case SourceFile:
		if c.Source.FilePath == "" {
			errs = append(errs, errors.New("SOURCE_FILE is required for file source"))
		}
	case SourceDrive:
		if c.Source.DriveFileID == "" && c.Source.DriveFolderPath == "" {
			errs = append(errs, errors.New("DRIVE_FILE_ID or DRIVE_FOLDER_PATH is required for drive source"))
		}
	case SourceSheets:
		if c.Source.SpreadsheetID == "" {
			errs = append(errs, errors.New("SHEETS_SPREADSHEET_ID is required for sheets source"))
		}
	case SourceS3, SourceMinio:
		if c.Source.ObjectKey == "" {
			errs = append(errs, errors.New("SOURCE_OBJECT_KEY is required for object storage source"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid SOURCE_KIND %q: must be one of [file drive sheets s3 minio]", c.Source.Kind))
	}

	switch c.Auth.Backend {
	case AuthStatic:
		if len(c.Auth.Users) == 0 {
			errs = append(errs, errors.New("AUTH_USERS is required for static auth"))
		}
	case AuthPostgres:
	default:
		errs = append(errs, fmt.Errorf("invalid AUTH_BACKEND %q: must be one of [static postgres]", c.Auth.Backend))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		errs = append(errs, fmt.Errorf("invalid JWT_TTL_MINUTES %d: must be positive", c.Auth.TokenTTLMinutes))
	}

	return errors.Join(errs...)
}

// DSN returns DATABASE_URL, or a URL assembled from the DB_* settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// TokenTTL returns the JWT lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// DashboardTTL returns the cache lifetime of a rendered dashboard.
func (c CacheConfig) DashboardTTL() time.Duration {
	return time.Duration(c.DashboardTTLSeconds) * time.Second
}

// GoogleCredentials returns the service account JSON, reading the file
// variant when no inline JSON is set.
func (s SourceConfig) GoogleCredentials() (string, error) {
	if s.GoogleCredentialsJSON != "" {
		return s.GoogleCredentialsJSON, nil
	}
	if s.GoogleCredentialsFile == "" {
		return "", errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
	data, err := os.ReadFile(s.GoogleCredentialsFile)
	if err != nil {
		return "", fmt.Errorf("read service account file: %w", err)
	}
	return string(data), nil
}

// ParseUsers parses "name:bcrypthash" pairs separated by commas.
func ParseUsers(raw string) (map[string]string, error) {
	users := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, hash, ok := strings.Cut(entry, ":")
		name, hash = strings.TrimSpace(name), strings.TrimSpace(hash)
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("invalid user entry %q: want name:hash", entry)
		}
		users[name] = hash
	}
	return users, nil
}

// LoadMapping returns the column mapping from a JSON file, or the default
// mapping when path is empty.
func LoadMapping(path string) (domain.ColumnMapping, error) {
	if path == "" {
		return domain.DefaultColumnMapping(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ColumnMapping{}, fmt.Errorf("read mapping file: %w", err)
	}

	var m domain.ColumnMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.ColumnMapping{}, fmt.Errorf("decode mapping file %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return domain.ColumnMapping{}, fmt.Errorf("invalid mapping file %s: %w", path, err)
	}
	return m, nil
}
