// Package s3 implements datasource.Store on Amazon S3 and S3-compatible
// services with aws-sdk-go-v2.
//
// Credentials are injected through datasource.Options into a static
// credentials provider scoped to this client. When no key id is given the
// SDK default chain applies.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource"
)

// deleteBatch is the DeleteObjects limit.
const deleteBatch = 1000

func init() {
	datasource.Register("s3", func(ctx context.Context, loc datasource.Location, opt datasource.Options) (datasource.Store, error) {
		return New(ctx, loc, opt)
	})
}

// API is the subset of *s3.Client the store uses. Tests substitute a fake.
type API interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Store is a datasource.Store rooted at bucket/prefix.
type Store struct {
	api    API
	bucket string
	prefix string
}

// New builds an S3 client from opt and returns a Store rooted at loc.
func New(ctx context.Context, loc datasource.Location, opt datasource.Options) (*Store, error) {
	cfg, err := LoadConfig(ctx, opt)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opt.Endpoint != "" {
			o.BaseEndpoint = aws.String(opt.Endpoint)
		}
		o.UsePathStyle = opt.PathStyle
	})
	return NewWithAPI(client, loc.Bucket, loc.Path), nil
}

// LoadConfig resolves the aws.Config for opt. Explicit keys take precedence
// over every other credential source.
func LoadConfig(ctx context.Context, opt datasource.Options) (aws.Config, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opt.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opt.Region))
	}
	if opt.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opt.AccessKeyID, opt.SecretAccessKey, opt.SessionToken),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("s3: load aws config: %w", err)
	}
	return cfg, nil
}

// NewWithAPI returns a Store over an existing client.
func NewWithAPI(api API, bucket, prefix string) *Store {
	return &Store{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// URI implements datasource.Store.
func (s *Store) URI() string {
	return datasource.Location{Scheme: "s3", Bucket: s.bucket, Path: s.prefix}.String()
}

func (s *Store) fullKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *Store) relKey(full string) string {
	if s.prefix == "" {
		return full
	}
	return strings.TrimPrefix(full, s.prefix+"/")
}

// List pages through ListObjectsV2.
func (s *Store) List(ctx context.Context, prefix string) ([]datasource.Object, error) {
	var out []datasource.Object
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.fullKey(prefix)),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: list s3://%s/%s: %w", s.bucket, s.fullKey(prefix), err)
		}
		for _, o := range page.Contents {
			key := aws.ToString(o.Key)
			if strings.HasSuffix(key, "/") {
				// Console-created "folder" markers.
				continue
			}
			out = append(out, datasource.Object{Key: s.relKey(key), Size: aws.ToInt64(o.Size)})
		}
	}
	return out, nil
}

// Open streams the object body.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	full := s.fullKey(key)
	res, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(full),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("s3: get s3://%s/%s: %w: %w", s.bucket, full, datasource.ErrNotFound, err)
		}
		return nil, fmt.Errorf("s3: get s3://%s/%s: %w", s.bucket, full, err)
	}
	return res.Body, nil
}

// Put uploads the body in a single PutObject call. Lake part files are
// bounded by rows_per_file, so multipart upload is not needed.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("s3: put %s: read body: %w", key, err)
		}
		body, size = bytes.NewReader(b), int64(len(b))
	}
	full := s.fullKey(key)
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(full),
		Body:          body,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("s3: put s3://%s/%s: %w", s.bucket, full, err)
	}
	return nil
}

// DeletePrefix lists then deletes in batches of 1000 keys.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	objs, err := s.List(ctx, prefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for start := 0; start < len(objs); start += deleteBatch {
		end := min(start+deleteBatch, len(objs))
		ids := make([]types.ObjectIdentifier, 0, end-start)
		for _, o := range objs[start:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(s.fullKey(o.Key))})
		}
		out, err := s.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return deleted, fmt.Errorf("s3: delete under s3://%s/%s: %w", s.bucket, s.fullKey(prefix), err)
		}
		if len(out.Errors) > 0 {
			e := out.Errors[0]
			return deleted + len(ids) - len(out.Errors), fmt.Errorf("s3: delete %s: %s: %s (%d failed)",
				aws.ToString(e.Key), aws.ToString(e.Code), aws.ToString(e.Message), len(out.Errors))
		}
		deleted += len(ids)
	}
	return deleted, nil
}
