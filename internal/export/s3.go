package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/nievasdev/brazilgas/internal/logger"
)

// PutObjectAPI is the slice of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores rendered views under <prefix>/<view>/<yyyymmdd>-<uuid>.<ext>.
type S3Uploader struct {
	client PutObjectAPI
	bucket string
	prefix string
	now    func() time.Time
	log    *logger.Entry
}

func NewS3Uploader(client PutObjectAPI, bucket, prefix string, log *logger.Log) *S3Uploader {
	return &S3Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
		log:    log.WithComponent("export"),
	}
}

func (u *S3Uploader) key(view string, f Format) string {
	name := fmt.Sprintf("%s-%s.%s", u.now().UTC().Format("20060102"), uuid.NewString(), f.Extension())
	return path.Join(u.prefix, view, name)
}

// Upload writes data and returns the object key.
func (u *S3Uploader) Upload(ctx context.Context, view string, f Format, data []byte) (string, error) {
	key := u.key(view, f)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(f.ContentType()),
		Metadata: map[string]string{
			"view":   view,
			"format": string(f),
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload %s export: %w", view, err)
	}

	u.log.WithFields(logger.Fields{"bucket": u.bucket, "key": key, "bytes": len(data)}).Info("export uploaded")
	return key, nil
}
