package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/util"
	"github.com/pkg/errors"
)

const contentTypeJSON = "application/json"

// S3Store keeps each document as <prefix><key>.json and polls the object ETag for changes.
type S3Store struct {
	client   *s3.Client
	bucket   string
	prefix   string
	interval time.Duration
}

type S3Options struct {
	Bucket          string
	Prefix          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	AccessKeySecret string
	Interval        time.Duration
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.AccessKeySecret, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "error initializing S3 client")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:   client,
		bucket:   opts.Bucket,
		prefix:   opts.Prefix,
		interval: opts.Interval,
	}, nil
}

func (s *S3Store) objectKey(key model.DocumentKey) string {
	return s.prefix + string(key) + ".json"
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

func (s *S3Store) Get(ctx context.Context, key model.DocumentKey) (*model.SiteContent, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if isNotFound(err) {
		return nil, wrap("get", key, ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error fetching object"))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error reading object"))
	}

	var content model.SiteContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error decoding document"))
	}
	return &content, nil
}

func (s *S3Store) Set(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error encoding document"))
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeJSON),
		Metadata:    map[string]string{"content-hash": util.ContentHash(data)},
	})
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error uploading object"))
	}

	storeLogger.Debug().Str("bucket", s.bucket).Str("object", s.objectKey(key)).Msg("Document uploaded")
	return nil
}

func (s *S3Store) fingerprint(key model.DocumentKey) fingerprintFunc {
	return func(ctx context.Context) (string, error) {
		out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.objectKey(key)),
		})
		if isNotFound(err) {
			return "", nil
		}
		if err != nil {
			return "", errors.Wrap(err, "error reading object metadata")
		}
		return aws.ToString(out.ETag), nil
	}
}

func (s *S3Store) Subscribe(key model.DocumentKey, onChange func(*model.SiteContent)) Unsubscribe {
	return watch(key, s.interval, s.fingerprint(key), func(ctx context.Context) (*model.SiteContent, error) {
		return s.Get(ctx, key)
	}, onChange)
}

func (s *S3Store) Close() error {
	return nil
}
