package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"resource-curator/config"
	"resource-curator/models"
	"resource-curator/storage"
)

const exportPrefix = "export-"

// ExportConfig ergänzt die Datenbank-Konfiguration um das Export-Ziel.
type ExportConfig struct {
	Bucket      string `envconfig:"EXPORT_S3_BUCKET" required:"true"`
	Endpoint    string `envconfig:"EXPORT_S3_ENDPOINT" required:"true"`
	AccessKey   string `envconfig:"EXPORT_S3_ACCESS_KEY" required:"true"`
	SecretKey   string `envconfig:"EXPORT_S3_SECRET_KEY" required:"true"`
	Region      string `envconfig:"EXPORT_S3_REGION" default:"eu-central-1"`
	KeepExports int    `envconfig:"KEEP_EXPORTS" default:"4"`
}

// Catalog ist das exportierte Dokument.
type Catalog struct {
	ExportedAt time.Time                `json:"exportedAt"`
	Resources  []models.CuratedResource `json:"resources"`
}

// Validate prüft Werte, die envconfig nicht abdeckt.
func (c ExportConfig) Validate() error {
	if c.KeepExports < 1 {
		return fmt.Errorf("KEEP_EXPORTS must be at least 1, got %d", c.KeepExports)
	}
	return nil
}

// objectStore ist der Teil des S3-Clients, den Upload und Rotation brauchen.
type objectStore interface {
	storage.ObjectPutter
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()
	logging.Info("Starte Katalog-Export...")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Fehler beim Laden der Konfiguration", zap.Error(err))
	}
	var exportCfg ExportConfig
	if err := envconfig.Process("", &exportCfg); err != nil {
		logging.Fatal("Fehler beim Laden der Export-Konfiguration", zap.Error(err))
	}
	if err := exportCfg.Validate(); err != nil {
		logging.Fatal("Ungültige Export-Konfiguration", zap.Error(err))
	}
	ctx := context.Background()

	// 1. Ressourcen laden
	db, err := storage.Open(cfg)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	resources, err := storage.NewResourceStore(db).All(ctx)
	if err != nil {
		logging.Fatal("Fehler beim Laden der Ressourcen", zap.Error(err))
	}

	// 2. Katalog erzeugen
	now := time.Now().UTC()
	data, err := buildCatalog(resources, now)
	if err != nil {
		logging.Fatal("Fehler beim Erstellen des Katalogs", zap.Error(err))
	}

	// 3. Hochladen
	client, err := storage.NewS3Client(ctx, storage.S3Settings{
		URL:    exportCfg.Endpoint,
		Region: exportCfg.Region,
		Key:    exportCfg.AccessKey,
		Secret: exportCfg.SecretKey,
	})
	if err != nil {
		logging.Fatal("Fehler beim Erstellen des S3-Clients", zap.Error(err))
	}
	key := exportKey(now)
	if err := storage.UploadFile(ctx, client, exportCfg.Bucket, key, "application/gzip", data); err != nil {
		logging.Fatal("Fehler beim Hochladen nach S3", zap.Error(err))
	}
	logging.Info("Export hochgeladen", zap.String("bucket", exportCfg.Bucket), zap.String("key", key), zap.Int("resources", len(resources)))

	// 4. Alte Exporte rotieren
	if err := rotateExports(ctx, client, exportCfg.Bucket, exportCfg.KeepExports, logging); err != nil {
		logging.Fatal("Fehler bei der Rotation alter Exporte", zap.Error(err))
	}
	logging.Info("Katalog-Export erfolgreich abgeschlossen.")
}

func exportKey(at time.Time) string {
	return fmt.Sprintf("%s%s.json.gz", exportPrefix, at.UTC().Format("2006-01-02T15-04-05Z"))
}

func buildCatalog(resources []models.CuratedResource, now time.Time) ([]byte, error) {
	if resources == nil {
		resources = []models.CuratedResource{}
	}
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gzipWriter).Encode(Catalog{ExportedAt: now, Resources: resources}); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rotateExports löscht alle Exporte außer den keep neuesten. Andere Objekte im Bucket bleiben.
// Der neueste Export bleibt immer erhalten.
func rotateExports(ctx context.Context, client objectStore, bucket string, keep int, logger *zap.Logger) error {
	keep = max(keep, 1)
	output, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(exportPrefix),
	})
	if err != nil {
		return err
	}

	var exports []string
	for _, obj := range output.Contents {
		if obj.Key != nil && strings.HasPrefix(*obj.Key, exportPrefix) {
			exports = append(exports, *obj.Key)
		}
	}
	if len(exports) <= keep {
		logger.Info("Keine Rotation nötig", zap.Int("exports", len(exports)), zap.Int("keep", keep))
		return nil
	}

	// Der Zeitstempel im Schlüssel sortiert lexikographisch.
	sort.Sort(sort.Reverse(sort.StringSlice(exports)))
	for _, key := range exports[keep:] {
		logger.Info("Lösche alten Export", zap.String("key", key))
		_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			logger.Warn("Fehler beim Löschen", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}
