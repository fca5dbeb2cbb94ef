package ingest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lychee-technology/rowgroup"
)

// ExportSnapshot renders group's full filter-all output as CSV (the
// canonical rendering FilterResult.Render produces) and uploads it to
// bucket/key through the aws-sdk-go-v2 transfer manager — the same
// multipart-aware uploader internal/cdc's flusher uses for its parquet
// snapshots, pointed at a plain text object instead.
func ExportSnapshot(ctx context.Context, client *s3.Client, bucket, key string, group *rowgroup.RowGroup) error {
	result := group.ReadFilter(group.ColumnNames(), nil)
	body := result.Render()

	uploader := manager.NewUploader(client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader([]byte(body)),
	})
	if err != nil {
		return fmt.Errorf("ingest: upload snapshot to s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}
