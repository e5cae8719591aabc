package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog/log"
)

// Source yields the raw bytes of the mosque dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

type LocalSource struct {
	path string
}

type SpacesSource struct {
	client s3iface.S3API
	bucket string
	key    string
}

func NewLocalSource(path string) *LocalSource {
	return &LocalSource{path: path}
}

func NewSpacesSource(endpoint, region, bucket, key, accessKey, secretKey string) (*SpacesSource, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return NewSpacesSourceWithClient(s3.New(sess), bucket, key), nil
}

// NewSpacesSourceWithClient builds a source around an existing S3 client.
func NewSpacesSourceWithClient(client s3iface.S3API, bucket, key string) *SpacesSource {
	return &SpacesSource{
		client: client,
		bucket: bucket,
		key:    strings.TrimPrefix(key, "/"),
	}
}

func (ls *LocalSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(ls.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	log.Debug().Str("path", ls.path).Msg("Opened local dataset")
	return f, nil
}

func (ls *LocalSource) String() string {
	return "file://" + ls.path
}

func (ss *SpacesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := ss.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(ss.key),
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", ss.bucket).Str("key", ss.key).Msg("Failed to fetch dataset from Spaces")
		return nil, fmt.Errorf("failed to fetch from Spaces: %w", err)
	}
	return out.Body, nil
}

func (ss *SpacesSource) String() string {
	return fmt.Sprintf("s3://%s/%s", ss.bucket, ss.key)
}
