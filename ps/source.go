package ps

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
)

// S3Options configures access to s3:// statement files. A nil Credentials
// uses the default AWS chain (environment, shared config, instance role).
type S3Options struct {
	Region      string
	Endpoint    string
	Credentials aws.CredentialsProvider
}

type sourceOpener func(ctx context.Context, loc *url.URL, opts *S3Options) (io.ReadCloser, error)

// sourceOpeners is keyed by lower-case URL scheme; "" is a plain path.
var sourceOpeners = map[string]sourceOpener{
	"":      openLocal,
	"file":  openLocal,
	"http":  openHTTP,
	"https": openHTTP,
	"s3":    openS3,
}

// OpenSource opens the statement file at location, which is either a
// filesystem path or a file://, http(s):// or s3:// URL.
func OpenSource(ctx context.Context, location string, opts *S3Options) (io.ReadCloser, error) {
	loc, err := parseLocation(location)
	if err != nil {
		return nil, err
	}
	open, ok := sourceOpeners[loc.Scheme]
	if !ok {
		return nil, errors.Newf("unsupported scheme %q", loc.Scheme)
	}
	return open(ctx, loc, opts)
}

// parseLocation treats anything without "://" as a path, so Windows drive
// letters are not mistaken for schemes.
func parseLocation(location string) (*url.URL, error) {
	if !strings.Contains(location, "://") {
		return &url.URL{Path: location}, nil
	}
	loc, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid location %s", location)
	}
	return loc, nil
}

func openLocal(_ context.Context, loc *url.URL, _ *S3Options) (io.ReadCloser, error) {
	// file://relative/q.sql puts the first segment in Host.
	return os.Open(loc.Host + loc.Path)
}

var httpClient = &http.Client{Timeout: 5 * time.Minute}

func openHTTP(ctx context.Context, loc *url.URL, _ *S3Options) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", loc.Redacted())
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errors.Newf("GET %s: %s", loc.Redacted(), resp.Status)
	}
	return resp.Body, nil
}

// s3Object splits s3://bucket/key. Both parts are required.
func s3Object(loc *url.URL) (bucket, key string, err error) {
	bucket, key = loc.Host, strings.TrimPrefix(loc.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.Newf("s3 location needs a bucket and a key: %s", loc)
	}
	return bucket, key, nil
}

func newS3Client(ctx context.Context, opts *S3Options) (*s3.Client, error) {
	if opts == nil {
		opts = &S3Options{}
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Credentials != nil {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(opts.Credentials))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS configuration")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func openS3(ctx context.Context, loc *url.URL, opts *S3Options) (io.ReadCloser, error) {
	bucket, key, err := s3Object(loc)
	if err != nil {
		return nil, err
	}

	client, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching s3://%s/%s", bucket, key)
	}
	return out.Body, nil
}
