package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

const tiffContentType = "image/tiff"

// S3Destination uploads objects into Bucket.
type S3Destination struct {
	Bucket   string
	Uploader s3manageriface.UploaderAPI
}

func NewS3Destination(sess *session.Session, bucket string) *S3Destination {
	return &S3Destination{
		Bucket:   bucket,
		Uploader: s3manager.NewUploader(sess),
	}
}

func (d *S3Destination) Put(ctx context.Context, name string, data []byte) error {
	_, err := d.Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(d.Bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(tiffContentType),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", d.Bucket, name, err)
	}

	return nil
}
