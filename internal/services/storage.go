package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"resume-screener/internal/config"
)

// ObjectStore archives uploaded resume files and returns a public URL for the
// stored object.
type ObjectStore interface {
	Put(ctx context.Context, content []byte, ownerID, filename string) (string, error)
}

type s3Store struct {
	client *s3.Client
	bucket string
	region string
	logger *zap.Logger
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

func NewS3Store(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ObjectStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &s3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWS.Bucket,
		region: cfg.AWS.Region,
		logger: logger,
	}, nil
}

// Put implements ObjectStore. Keys are namespaced per owner and timestamped so
// re-uploads of the same filename never collide.
func (s *s3Store) Put(ctx context.Context, content []byte, ownerID, filename string) (string, error) {
	key := fmt.Sprintf("resumes/%s/%s_%s", ownerID, time.Now().Format("20060102_150405"), filename)

	contentType := contentTypes[strings.ToLower(filepath.Ext(filename))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	s.logger.Debug("resume archived", zap.String("key", key))
	return url, nil
}
