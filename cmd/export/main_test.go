package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resource-curator/models"
)

type fakeBucket struct {
	keys    []string
	deleted []string
}

func (f *fakeBucket) PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for _, k := range f.keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestExportKey(t *testing.T) {
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	assert.Equal(t, "export-2025-02-03T04-05-06Z.json.gz", exportKey(at))
}

func TestBuildCatalog(t *testing.T) {
	now := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	data, err := buildCatalog([]models.CuratedResource{{ID: 1, URL: "https://example.com/a", Title: "A"}}, now)
	require.NoError(t, err)

	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	var catalog Catalog
	require.NoError(t, json.NewDecoder(zr).Decode(&catalog))
	assert.True(t, catalog.ExportedAt.Equal(now))
	require.Len(t, catalog.Resources, 1)
	assert.Equal(t, "https://example.com/a", catalog.Resources[0].URL)
}

func TestRotateExportsKeepsNewest(t *testing.T) {
	bucket := &fakeBucket{keys: []string{
		"export-2025-01-01T00-00-00Z.json.gz",
		"export-2025-03-01T00-00-00Z.json.gz",
		"export-2025-02-01T00-00-00Z.json.gz",
		"export-2024-12-01T00-00-00Z.json.gz",
	}}
	require.NoError(t, rotateExports(context.Background(), bucket, "b", 2, zap.NewNop()))
	assert.Equal(t, []string{
		"export-2025-01-01T00-00-00Z.json.gz",
		"export-2024-12-01T00-00-00Z.json.gz",
	}, bucket.deleted)
}

func TestRotateExportsNothingToDo(t *testing.T) {
	bucket := &fakeBucket{keys: []string{"export-2025-01-01T00-00-00Z.json.gz"}}
	require.NoError(t, rotateExports(context.Background(), bucket, "b", 4, zap.NewNop()))
	assert.Empty(t, bucket.deleted)
}

func TestRotateExportsAlwaysKeepsNewest(t *testing.T) {
	for _, keep := range []int{0, -3} {
		bucket := &fakeBucket{keys: []string{
			"export-2025-01-01T00-00-00Z.json.gz",
			"export-2025-03-01T00-00-00Z.json.gz",
			"export-2025-02-01T00-00-00Z.json.gz",
		}}
		require.NoError(t, rotateExports(context.Background(), bucket, "b", keep, zap.NewNop()))
		assert.Equal(t, []string{
			"export-2025-02-01T00-00-00Z.json.gz",
			"export-2025-01-01T00-00-00Z.json.gz",
		}, bucket.deleted, keep)
	}
}

func TestExportConfigValidate(t *testing.T) {
	assert.NoError(t, ExportConfig{KeepExports: 4}.Validate())
	assert.Error(t, ExportConfig{KeepExports: 0}.Validate())
	assert.Error(t, ExportConfig{KeepExports: -1}.Validate())
}
