package assetstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	appcfg "github.com/mx-space/sitecms/internal/config"
)

// S3Store talks to any S3-compatible bucket (AWS, R2, MinIO).
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func NewS3(cfg appcfg.MediaConfig) (*S3Store, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	accessKey := strings.TrimSpace(cfg.AccessKeyID)
	secretKey := strings.TrimSpace(cfg.SecretAccessKey)
	if bucket == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/access_key_id/secret_access_key are required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "auto"
	}

	opts := s3.Options{
		Region:       region,
		Credentials:  aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		UsePathStyle: cfg.PathStyle,
	}
	var endpoint *url.URL
	if raw := strings.TrimSpace(cfg.Endpoint); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("invalid s3 endpoint: %s", raw)
		}
		endpoint = parsed
		opts.BaseEndpoint = aws.String(strings.TrimRight(raw, "/"))
	}

	return &S3Store{
		client:     s3.New(opts),
		bucket:     bucket,
		publicBase: publicBase(cfg.CustomDomain, endpoint, bucket, region, cfg.PathStyle),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.publicBase + "/" + encodeKey(key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return ErrNotFound
	}
	return fmt.Errorf("s3 delete %s: %w", key, err)
}

func (s *S3Store) KeyFromURL(rawURL string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(rawURL), s.publicBase+"/")
	if !ok || rest == "" {
		return "", false
	}
	key, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	return key, true
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

func publicBase(customDomain string, endpoint *url.URL, bucket, region string, pathStyle bool) string {
	if d := strings.TrimRight(strings.TrimSpace(customDomain), "/"); d != "" {
		if !strings.HasPrefix(d, "http://") && !strings.HasPrefix(d, "https://") {
			d = "https://" + d
		}
		return d
	}
	if endpoint == nil {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	base := strings.TrimSuffix(endpoint.Path, "/")
	if pathStyle {
		return endpoint.Scheme + "://" + endpoint.Host + base + "/" + bucket
	}
	host := endpoint.Host
	if !strings.HasPrefix(strings.ToLower(host), strings.ToLower(bucket)+".") {
		host = bucket + "." + host
	}
	return endpoint.Scheme + "://" + host + base
}

func encodeKey(key string) string {
	parts := strings.Split(strings.TrimPrefix(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
