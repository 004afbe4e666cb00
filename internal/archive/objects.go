package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/flight-intent/pkg/logging"
)

// S3API is the subset of the S3 client used by ObjectStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectStore writes each confirmed intent as a JSON object, partitioned by
// confirmation date.
type ObjectStore struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
}

// NewObjectStore creates an ObjectStore. If bucket is empty, Archive is a no-op.
func NewObjectStore(s3Client S3API, bucket string, logger *logging.Logger) *ObjectStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &ObjectStore{bucket: bucket, s3Client: s3Client, logger: logger}
}

// Enabled returns true if a bucket and client are configured.
func (s *ObjectStore) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

func (s *ObjectStore) Archive(ctx context.Context, in Intent) error {
	if !s.Enabled() {
		return nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("archive: marshal intent: %w", err)
	}

	key := objectKey(in)
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put %s: %w", key, err)
	}

	s.logger.Info("archived intent to S3", "intent_id", in.ID, "session_id", in.SessionID, "s3_key", key)
	return nil
}

func objectKey(in Intent) string {
	at := in.ConfirmedAt
	return fmt.Sprintf("intents/v1/by-date/%d/%02d/%02d/%s.json", at.Year(), at.Month(), at.Day(), in.ID)
}
