package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"resource-curator/models"
)

// S3Settings beschreibt einen S3-kompatiblen Endpunkt (z.B. Strato HiDrive oder MinIO).
type S3Settings struct {
	URL    string
	Region string
	Key    string
	Secret string
}

// NewS3Client erstellt einen S3-Client für einen festen Endpunkt.
func NewS3Client(ctx context.Context, s S3Settings) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               s.URL,
				SigningRegion:     s.Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.Key, s.Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}

// ObjectPutter ist der Teil des S3-Clients, den das Archiv benötigt.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// UploadFile lädt Daten unter key hoch.
func UploadFile(ctx context.Context, client ObjectPutter, bucket, key, contentType string, data []byte) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// Snapshot ist das JSON-Dokument eines archivierten Discovery-Laufs.
type Snapshot struct {
	RunID      string                      `json:"runId"`
	Concept    string                      `json:"concept"`
	ArchivedAt time.Time                   `json:"archivedAt"`
	Results    []models.DiscoveredResource `json:"results"`
}

// SnapshotArchiver legt Discovery-Läufe als JSON in einem Bucket ab.
type SnapshotArchiver struct {
	Client ObjectPutter
	Bucket string
	Prefix string
	Now    func() time.Time
}

// NewSnapshotArchiver erstellt ein Archiv unter dem Präfix "snapshots/".
func NewSnapshotArchiver(client ObjectPutter, bucket string) *SnapshotArchiver {
	return &SnapshotArchiver{Client: client, Bucket: bucket, Prefix: "snapshots/", Now: time.Now}
}

// SnapshotKey liefert den Objektschlüssel eines Laufs, nach Tag gruppiert.
func (a *SnapshotArchiver) SnapshotKey(runID string, at time.Time) string {
	return fmt.Sprintf("%s%s/%s.json", a.Prefix, at.UTC().Format("2006-01-02"), runID)
}

// Archive schreibt den Lauf nach S3.
func (a *SnapshotArchiver) Archive(ctx context.Context, runID, concept string, results []models.DiscoveredResource) error {
	now := a.Now()
	data, err := json.Marshal(Snapshot{RunID: runID, Concept: concept, ArchivedAt: now.UTC(), Results: results})
	if err != nil {
		return err
	}
	return UploadFile(ctx, a.Client, a.Bucket, a.SnapshotKey(runID, now), "application/json", data)
}
