package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Quellen-Registry
	SourcesFile         string        `envconfig:"SOURCES_FILE"`
	EnabledSources      string        `envconfig:"ENABLED_SOURCES"`
	SourceTimeout       time.Duration `envconfig:"SOURCE_TIMEOUT" default:"10s"`
	SourceRatePerSecond float64       `envconfig:"SOURCE_RATE_PER_SECOND" default:"2"`
	SourceUserAgent     string        `envconfig:"SOURCE_USER_AGENT" default:"Mozilla/5.0 (compatible; resource-curator/1.0)"`
	YouTubeAPIKey       string        `envconfig:"YOUTUBE_API_KEY"`

	// Discovery & Kuratierung
	DefaultResultLimit    int    `envconfig:"DEFAULT_RESULT_LIMIT" default:"20"`
	MaxResultLimit        int    `envconfig:"MAX_RESULT_LIMIT" default:"50"`
	DefaultRelevanceScore int    `envconfig:"DEFAULT_RELEVANCE_SCORE" default:"70"`
	SeedConcepts          string `envconfig:"SEED_CONCEPTS" default:"Neural Networks,Linear Algebra,Recursion"`

	// Geplanter Kuratierungs-Durchlauf über alle Konzepte
	SweepEnabled bool   `envconfig:"SWEEP_ENABLED" default:"false"`
	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 3 * * *"`

	// Optionales Archiv für Discovery-Snapshots
	SnapshotS3Key    string `envconfig:"SNAPSHOT_S3_KEY"`
	SnapshotS3Secret string `envconfig:"SNAPSHOT_S3_SECRET"`
	SnapshotS3URL    string `envconfig:"SNAPSHOT_S3_URL"`
	SnapshotS3Region string `envconfig:"SNAPSHOT_S3_REGION" default:"eu-central-1"`
	SnapshotS3Bucket string `envconfig:"SNAPSHOT_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// SnapshotsEnabled meldet, ob alle Parameter für das S3-Archiv gesetzt sind.
func (c *Config) SnapshotsEnabled() bool {
	return c.SnapshotS3URL != "" && c.SnapshotS3Bucket != "" && c.SnapshotS3Key != "" && c.SnapshotS3Secret != ""
}

// EnabledSourceNames liefert die aktivierten Quellen; leer bedeutet alle.
func (c *Config) EnabledSourceNames() []string {
	return splitList(c.EnabledSources)
}

// SeedConceptNames liefert die Konzepte, die beim Start angelegt werden.
func (c *Config) SeedConceptNames() []string {
	return splitList(c.SeedConcepts)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
