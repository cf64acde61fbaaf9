package ledgers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/dmitrijs2005/grocer/internal/logging"
	"github.com/dmitrijs2005/grocer/internal/models"
)

// ObjectAPI is the part of *s3.Client the store needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps one JSON document per user at ledgers/<username>.json.
// Writes are conditional on the ETag read just before, so a concurrent
// writer makes Save fail with common.ErrVersionConflict instead of being
// overwritten.
type S3Store struct {
	api    ObjectAPI
	bucket string
	logger logging.Logger
}

func NewS3Store(api ObjectAPI, bucket string, logger logging.Logger) *S3Store {
	return &S3Store{api: api, bucket: bucket, logger: logger}
}

// Seams for tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newS3Client          = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Client builds an S3 client with static credentials from cfg. A
// non-empty S3BaseEndpoint selects an S3-compatible server such as MinIO.
func NewS3Client(ctx context.Context, cfg *config.Config) (ObjectAPI, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3Client(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ObjectKey returns the object key for username. The name is path-escaped so
// it always maps to a single object under ledgers/.
func ObjectKey(username string) string {
	return "ledgers/" + url.PathEscape(username) + ".json"
}

func (s *S3Store) Load(ctx context.Context, username string) (*models.Ledger, error) {
	l, _, err := s.get(ctx, username)
	if err != nil {
		s.logger.Error(ctx, "ledger load failed", "username", username, "error", err)
		return nil, err
	}
	return l, nil
}

func (s *S3Store) Save(ctx context.Context, username string, l *models.Ledger) error {
	current, etag, err := s.get(ctx, username)
	if err != nil {
		return err
	}
	if current.Version != l.Version {
		s.logger.Warn(ctx, "stale ledger rejected", "username", username, "have", l.Version, "stored", current.Version)
		return common.ErrVersionConflict
	}

	doc := *l
	doc.Version = current.Version + 1
	body, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(ObjectKey(username)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}
	if etag == "" {
		in.IfNoneMatch = aws.String("*")
	} else {
		in.IfMatch = aws.String(etag)
	}

	if _, err := s.api.PutObject(ctx, in); err != nil {
		if isPreconditionFailure(err) {
			return common.ErrVersionConflict
		}
		s.logger.Warn(ctx, "ledger save failed", "username", username, "error", err)
		return fmt.Errorf("s3 put: %w", err)
	}

	l.Version = doc.Version
	s.logger.Debug(ctx, "ledger saved", "username", username, "version", l.Version)
	return nil
}

// get returns the stored ledger and its ETag, or an empty ledger and "" when
// the user has no document yet.
func (s *S3Store) get(ctx context.Context, username string) (*models.Ledger, string, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(username)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return models.NewLedger(), "", nil
		}
		return nil, "", fmt.Errorf("s3 get: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("s3 read: %w", err)
	}

	l := models.NewLedger()
	if err := json.Unmarshal(body, l); err != nil {
		return nil, "", fmt.Errorf("decode ledger: %w", err)
	}
	if l.Purchases == nil {
		l.Purchases = []models.PurchaseRecord{}
	}
	if l.Budgets == nil {
		l.Budgets = []models.BudgetEntry{}
	}

	return l, aws.ToString(out.ETag), nil
}

func isPreconditionFailure(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
