package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// S3Config targets AWS S3 or an S3-compatible bucket such as Cloudflare R2.
// When AccountID is set and Endpoint is empty the R2 endpoint is derived.
type S3Config struct {
	AccountID       string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	HTTPClient      *http.Client
}

// S3Store loads templates from and archives diplomas to one bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, crerr.New("s3 bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, crerr.New("s3 access key id and secret are required")
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" && cfg.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "auto"
	}
	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "load s3 sdk config")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.HTTPClient = tracedHTTPClient(sdkCfg.HTTPClient, cfg.HTTPClient)
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// tracedHTTPClient prefers the caller's client. Otherwise it wraps the
// transport the sdk built, which carries AWS_CA_BUNDLE roots.
func tracedHTTPClient(sdkClient aws.HTTPClient, override *http.Client) aws.HTTPClient {
	if override != nil {
		return override
	}
	bc, ok := sdkClient.(*awshttp.BuildableClient)
	if !ok {
		bc = awshttp.NewBuildableClient()
	}
	return &http.Client{
		Transport: otelhttp.NewTransport(bc.GetTransport()),
		Timeout:   bc.GetTimeout(),
	}
}

func (s *S3Store) key(name string) (string, error) {
	cleaned, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return cleaned, nil
	}
	return path.Join(s.prefix, cleaned), nil
}

func (s *S3Store) Load(ctx context.Context, name string) ([]byte, error) {
	key, err := s.key(name)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, crerr.Wrapf(ErrObjectNotFound, "s3 object %s", key)
		}
		return nil, crerr.Wrapf(err, "get s3 object %s", key)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, crerr.Wrapf(err, "read s3 object %s", key)
	}
	if len(b) > maxObjectSize {
		return nil, crerr.Newf("s3 object %s exceeds %d bytes", key, maxObjectSize)
	}
	return b, nil
}

func (s *S3Store) Put(ctx context.Context, name, contentType string, body []byte) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return crerr.Wrapf(err, "put s3 object %s", key)
	}
	return nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}
