// Package archive offloads cold-memory content to S3, the optional tier
// named in SPEC_FULL.md's domain stack. Grounded on the teacher's
// apis/aws/s3/s3.go CreateS3Client/UploadRawFile pair, narrowed from a
// general file-upload helper to "archive one memory's content by id".
package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Archiver implements hsg.Archiver against a single configured bucket.
type S3Archiver struct {
	client *s3.Client
	bucket string
}

// NewS3Archiver builds a client the way CreateS3Client does: explicit
// region/credentials if given, otherwise whatever the ambient AWS SDK
// default chain resolves.
func NewS3Archiver(ctx context.Context, bucket, region, accessKeyID, secretAccessKey string) (*S3Archiver, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if accessKeyID != "" && secretAccessKey != "" {
		creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""))
		opts = append(opts, config.WithCredentialsProvider(creds))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("archive: couldn't load AWS configuration: %w", err)
	}
	return &S3Archiver{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Archive writes content under "<namespace>/<memoryID>.txt" and returns
// the object key as the stored ArchiveRef. Objects are private; unlike the
// teacher's UploadRawFile this is never served to an end user directly, so
// the object gets the private canned ACL and no public URL is built.
func (a *S3Archiver) Archive(ctx context.Context, namespace, memoryID, content string) (string, error) {
	key := fmt.Sprintf("%s/%s.txt", namespace, memoryID)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(content)),
		ACL:         types.ObjectCannedACLPrivate,
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("archive: put object %s/%s: %w", a.bucket, key, err)
	}
	return key, nil
}

// Retrieve fetches previously archived content back out by its ArchiveRef.
// It is not part of the hsg.Archiver interface, and regeneration does not
// call it.
func (a *S3Archiver) Retrieve(ctx context.Context, ref string) (string, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return "", fmt.Errorf("archive: get object %s/%s: %w", a.bucket, ref, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return "", fmt.Errorf("archive: read object %s/%s: %w", a.bucket, ref, err)
	}
	return buf.String(), nil
}
