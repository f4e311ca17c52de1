package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Supported publish targets.
const (
	TargetGitHub = "github"
	TargetS3     = "s3"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ItemsDir      string
	OutputPath    string
	CSVOutputPath string
	RegionsFile   string

	Concurrency int
	MaxRetries  int
	LogLevel    string

	PublishTarget string
	GitHubToken   string
	GitHubRepo    string
	GitHubBranch  string
	GitHubPath    string
	CommitMessage string

	S3Bucket    string
	S3Key       string
	S3Prefix    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	ServeAddr string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:     getEnv("DB_PATH", "./inventory.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", ""),
		DBUser:     getEnv("DB_USER", "inventory"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "inventory"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		ItemsDir:      getEnv("ITEMS_DIR", "./items"),
		OutputPath:    getEnv("OUTPUT_PATH", "./data/inventory.json"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", ""),
		RegionsFile:   getEnv("REGIONS_FILE", ""),

		Concurrency: getEnvInt("CONCURRENCY", 4),
		MaxRetries:  getEnvInt("MAX_RETRIES", 3),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		PublishTarget: strings.ToLower(getEnv("PUBLISH_TARGET", TargetGitHub)),
		GitHubToken:   getEnv("GITHUB_TOKEN", ""),
		GitHubRepo:    getEnv("GITHUB_REPO", ""),
		GitHubBranch:  getEnv("GITHUB_BRANCH", ""),
		GitHubPath:    getEnv("GITHUB_PATH", "data/inventory.json"),
		CommitMessage: getEnv("COMMIT_MESSAGE", "Update inventory catalog data"),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Key:       getEnv("S3_KEY", "data/inventory.json"),
		S3Prefix:    getEnv("S3_PREFIX", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		ServeAddr: getEnv("SERVE_ADDR", ":8080"),
	}
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return "host=" + c.DBHost +
			" port=" + port +
			" user=" + c.DBUser +
			" password=" + c.DBPassword +
			" dbname=" + c.DBName +
			" sslmode=" + c.DBSSLMode
	case DriverMySQL:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=false",
			c.DBUser, c.DBPassword, c.DBHost, port, c.DBName)
	default:
		u := url.URL{Scheme: "file", OmitHost: true, Path: filepath.ToSlash(c.DBPath), RawQuery: "mode=ro"}
		return u.String()
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.OutputPath == "" {
		return errors.New("config: OUTPUT_PATH must not be empty")
	}
	if c.ItemsDir == "" {
		return errors.New("config: ITEMS_DIR must not be empty")
	}
	return nil
}

// ValidatePublish checks the settings of the selected publish target.
func (c *Config) ValidatePublish() error {
	var missing []string
	switch c.PublishTarget {
	case TargetGitHub:
		if c.GitHubToken == "" {
			missing = append(missing, "GITHUB_TOKEN")
		}
		if c.GitHubRepo == "" {
			missing = append(missing, "GITHUB_REPO")
		} else if owner, repo, ok := strings.Cut(c.GitHubRepo, "/"); !ok || owner == "" || repo == "" {
			return fmt.Errorf("config: GITHUB_REPO must look like owner/repo, got %q", c.GitHubRepo)
		}
	case TargetS3:
		if c.S3Bucket == "" {
			missing = append(missing, "S3_BUCKET")
		}
	default:
		return fmt.Errorf("config: unsupported PUBLISH_TARGET %q", c.PublishTarget)
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: %s not set", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
