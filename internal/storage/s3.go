// Package storage uploads run artifacts to S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"samivl/pkg/digest"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MetadataSHA256 is the object metadata key holding the file's hex SHA-256.
const MetadataSHA256 = "sha256"

var (
	// ErrEmptyBucket is returned when no bucket is configured.
	ErrEmptyBucket = errors.New("bucket is empty")
	// ErrEmptyFilename is returned for an upload with no file.
	ErrEmptyFilename = errors.New("filename is empty")
)

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader copies local files under a key prefix in one bucket.
type Uploader struct {
	bucket string
	prefix string
	client ObjectPutter
}

// NewS3Uploader builds an uploader from the default AWS credential chain.
func NewS3Uploader(ctx context.Context, region, bucket, prefix string) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewUploader(s3.NewFromConfig(cfg), bucket, prefix)
}

// NewUploader wraps an existing client.
func NewUploader(client ObjectPutter, bucket, prefix string) (*Uploader, error) {
	if bucket == "" {
		return nil, ErrEmptyBucket
	}

	return &Uploader{bucket: bucket, prefix: prefix, client: client}, nil
}

// Key returns the object key for a run-relative name.
func (u *Uploader) Key(rel string) string {
	return path.Join(u.prefix, filepath.ToSlash(rel))
}

// UploadFile puts the local file at localPath under Key(rel) and returns the key.
func (u *Uploader) UploadFile(ctx context.Context, localPath, rel string) (string, error) {
	if localPath == "" {
		return "", ErrEmptyFilename
	}

	sum, err := digest.File(localPath)
	if err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	key := u.Key(rel)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(localPath)),
		Metadata:    map[string]string{MetadataSHA256: sum},
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to s3://%s/%s: %w", localPath, u.bucket, key, err)
	}

	return key, nil
}

// UploadRun uploads each file under the run's directory name, so a harvest
// run keeps its folder name in the bucket.
func (u *Uploader) UploadRun(ctx context.Context, runDir string, files ...string) ([]string, error) {
	keys := make([]string, 0, len(files))

	for _, name := range files {
		local := filepath.Join(runDir, name)
		if _, err := os.Stat(local); errors.Is(err, os.ErrNotExist) {
			continue
		}

		key, err := u.UploadFile(ctx, local, path.Join(filepath.Base(runDir), name))
		if err != nil {
			return keys, err
		}

		keys = append(keys, key)
	}

	return keys, nil
}

func contentType(name string) string {
	switch ext := filepath.Ext(name); ext {
	case ".xlsx":
		return xlsxContentType
	case ".csv":
		return "text/csv"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}

		return "application/octet-stream"
	}
}
