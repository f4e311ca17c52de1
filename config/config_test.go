package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CONCURRENCY", "")
	t.Setenv("OUTPUT_PATH", "")

	cfg := Load()
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "./data/inventory.json", cfg.OutputPath)
	assert.Equal(t, "./items", cfg.ItemsDir)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("CONCURRENCY", "8")
	t.Setenv("MAX_RETRIES", "not-a-number")
	t.Setenv("PUBLISH_TARGET", "S3")

	cfg := Load()
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, TargetS3, cfg.PublishTarget)

	t.Setenv("S3_PREFIX", "site")
	assert.Equal(t, "site", Load().S3Prefix)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, DBPath: "./inventory.db"}
	assert.Equal(t, "file:./inventory.db?mode=ro", cfg.DSN())

	cfg = &Config{DBDriver: DriverSQLite, DBPath: "/data/inv?#%1 2.db"}
	assert.Equal(t, "file:/data/inv%3F%23%251%202.db?mode=ro", cfg.DSN())

	cfg = &Config{DBDriver: DriverPostgres, DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "inv", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=inv sslmode=disable", cfg.DSN())

	cfg = &Config{DBDriver: DriverMySQL, DBHost: "db", DBPort: "3307", DBUser: "u", DBPassword: "p", DBName: "inv"}
	assert.Equal(t, "u:p@tcp(db:3307)/inv?parseTime=false", cfg.DSN())
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBDriver: "oracle", OutputPath: "out.json", ItemsDir: "items"}
	assert.Error(t, cfg.Validate())

	cfg.DBDriver = DriverMySQL
	assert.NoError(t, cfg.Validate())

	cfg.OutputPath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidatePublish(t *testing.T) {
	cfg := &Config{PublishTarget: TargetGitHub}
	err := cfg.ValidatePublish()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	assert.Contains(t, err.Error(), "GITHUB_REPO")

	cfg.GitHubToken = "t"
	cfg.GitHubRepo = "no-slash"
	assert.Error(t, cfg.ValidatePublish())

	cfg.GitHubRepo = "acme/catalog"
	assert.NoError(t, cfg.ValidatePublish())

	cfg = &Config{PublishTarget: TargetS3}
	assert.Error(t, cfg.ValidatePublish())
	cfg.S3Bucket = "catalog"
	assert.NoError(t, cfg.ValidatePublish())

	cfg.PublishTarget = "ftp"
	assert.Error(t, cfg.ValidatePublish())
}
