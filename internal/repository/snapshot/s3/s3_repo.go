package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"focusFlow/internal/config"
	"focusFlow/internal/logger"
	repo "focusFlow/internal/repository"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// Storage хранит снимок одним объектом в бакете S3
type Storage struct {
	client *s3.Client
	bucket string
	objKey string
}

func New(ctx context.Context, cfg config.S3Config, key string) (*Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("загрузка конфигурации AWS: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix, key), nil
}

func NewWithClient(client *s3.Client, bucket, prefix, key string) *Storage {
	objKey := strings.TrimPrefix(key, "/") + ".json"
	if p := strings.Trim(prefix, "/"); p != "" {
		objKey = p + "/" + objKey
	}
	return &Storage{client: client, bucket: bucket, objKey: objKey}
}

func (s *Storage) ObjectKey() string {
	return s.objKey
}

func (s *Storage) Load(ctx context.Context) ([]byte, error) {
	start := time.Now()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objKey),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, s.objKey, repo.ErrNotFound)
		}
		logger.Error("Repository: Не удалось получить снимок из S3", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("чтение s3://%s/%s: %w", s.bucket, s.objKey, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение тела s3://%s/%s: %w", s.bucket, s.objKey, err)
	}
	return data, nil
}

func (s *Storage) Save(ctx context.Context, data []byte) error {
	start := time.Now()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		logger.Error("Repository: Не удалось сохранить снимок в S3", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("запись s3://%s/%s: %w", s.bucket, s.objKey, err)
	}
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("проверка бакета %s: %w", s.bucket, err)
	}
	return nil
}

func (s *Storage) Close() {}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	return errors.As(err, &nf)
}
