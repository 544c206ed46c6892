package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/infutrix/backoffice-api/internal/config"
	"github.com/infutrix/backoffice-api/internal/observability"
)

type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string
	HTTPClient      *http.Client
}

func S3OptionsFromConfig(cfg *config.Config) S3Options {
	return S3Options{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		UsePathStyle:    cfg.S3UsePathStyle,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	}
}

// S3Store writes objects to an S3 (or S3-compatible) bucket.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Store(opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	s3opts := s3.Options{
		Region:                     opts.Region,
		UsePathStyle:               opts.UsePathStyle,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	}
	if opts.AccessKeyID != "" {
		creds := aws.Credentials{AccessKeyID: opts.AccessKeyID, SecretAccessKey: opts.SecretAccessKey, Source: "backoffice-config"}
		s3opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		}))
	} else {
		s3opts.Credentials = aws.AnonymousCredentials{}
	}
	if opts.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(opts.Endpoint)
	}
	if opts.HTTPClient != nil {
		s3opts.HTTPClient = opts.HTTPClient
	}
	return &S3Store{
		client:  s3.New(s3opts),
		bucket:  opts.Bucket,
		baseURL: publicBaseURL(opts),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (Object, error) {
	if err := validateKey(key); err != nil {
		return Object{}, err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		observability.RecordBlobOperation(ctx, "put", "error")
		return Object{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	observability.RecordBlobOperation(ctx, "put", "success")
	return Object{Key: key, URL: s.baseURL + "/" + escapeKey(key), ContentType: contentType, Size: int64(len(body))}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		observability.RecordBlobOperation(ctx, "delete", "error")
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	observability.RecordBlobOperation(ctx, "delete", "success")
	return nil
}

// publicBaseURL is where stored objects are readable from, without a
// trailing slash.
func publicBaseURL(opts S3Options) string {
	switch {
	case opts.PublicBaseURL != "":
		return strings.TrimRight(opts.PublicBaseURL, "/")
	case opts.Endpoint != "" && opts.UsePathStyle:
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	case opts.Endpoint != "":
		u, err := url.Parse(opts.Endpoint)
		if err != nil || u.Host == "" {
			return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		}
		return u.Scheme + "://" + opts.Bucket + "." + u.Host
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
