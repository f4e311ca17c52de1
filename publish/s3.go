package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"inventory-catalog/utils"
)

// S3Config locates the bucket the catalog is uploaded to.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// Prefix is prepended to every key.
	Prefix string
}

// S3Publisher uploads the catalog to an S3-compatible bucket.
type S3Publisher struct {
	bucket   string
	prefix   string
	uploader *manager.Uploader
	logger   *utils.Logger
}

// NewS3Publisher builds an S3 client from the default AWS credential chain,
// or from static keys when both are configured.
func NewS3Publisher(ctx context.Context, cfg S3Config, logger *utils.Logger) (*S3Publisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	if logger == nil {
		logger = utils.NewNopLogger()
	}
	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &S3Publisher{
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		uploader: manager.NewUploader(client),
		logger:   logger,
	}, nil
}

func (p *S3Publisher) Name() string { return "s3" }

func (p *S3Publisher) Publish(ctx context.Context, in Input) (*Output, error) {
	key := in.Path
	if p.prefix != "" {
		key = path.Join(p.prefix, in.Path)
	}

	result, err := p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(in.Content),
		ContentType:  aws.String("application/json; charset=utf-8"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return nil, &Error{Target: p.Name(), Err: fmt.Errorf("s3 upload %s: %w", key, err)}
	}

	p.logger.Info("[s3] Uploaded s3://%s/%s", p.bucket, key)

	out := &Output{Location: result.Location}
	if result.ETag != nil {
		out.Version = *result.ETag
	}
	return out, nil
}
