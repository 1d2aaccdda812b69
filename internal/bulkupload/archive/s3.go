// Package archive stores uploaded spreadsheets in an S3-compatible bucket
// so a failed reconciliation can be replayed from the original file.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type S3Archive struct {
	client *s3.Client
	bucket string
}

// NewS3Archive creates the archive store. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Archive(ctx context.Context, bucket, region, endpoint string) (*S3Archive, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var opts []func(*s3.Options)
	if endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Archive{client: s3.NewFromConfig(cfg, opts...), bucket: bucket}, nil
}

// Store uploads the workbook and returns the object key.
func (a *S3Archive) Store(ctx context.Context, filename string, data []byte) (string, error) {
	key := path.Join("bulk-uploads",
		time.Now().UTC().Format("2006/01/02"),
		uuid.NewString()+"-"+path.Base(filename))

	ct := contentType
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &ct,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return key, nil
}
