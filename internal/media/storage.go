package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"safety-survey-go/internal/config"
)

var validImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// File is an uploaded image before it reaches the blob store.
type File struct {
	Name    string
	Content []byte
}

// Storage keeps survey images in an S3-compatible bucket.
type Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	newBlobID     func() string
}

func NewStorage(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %v", err)
	}

	options := s3.Options{
		Region:       awsCfg.Region,
		Credentials:  awsCfg.Credentials,
		HTTPClient:   awsCfg.HTTPClient,
		BaseEndpoint: awsCfg.BaseEndpoint,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Region != "" {
		options.Region = cfg.Region
	}
	if cfg.Endpoint != "" {
		options.BaseEndpoint = &cfg.Endpoint
	}

	publicBaseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" && cfg.Endpoint != "" {
		publicBaseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &Storage{
		client:        s3.New(options),
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
		newBlobID:     func() string { return uuid.NewString() },
	}, nil
}

// Upload stores every file under images/<uuid>_<name> and returns the public
// URLs in input order. Validation runs over the whole batch first so a single
// bad file rejects the request before anything is written.
func (s *Storage) Upload(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	for _, file := range files {
		if !validImageExtensions[strings.ToLower(path.Ext(file.Name))] {
			return nil, &InvalidFileError{Name: file.Name}
		}
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		blobName := fmt.Sprintf("images/%s_%s", s.newBlobID(), file.Name)
		contentType := ContentTypeFor(blobName)

		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      &s.bucket,
			Key:         &blobName,
			Body:        bytes.NewReader(file.Content),
			ContentType: &contentType,
			ACL:         types.ObjectCannedACLPrivate,
		})
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", blobName, err)
		}

		urls = append(urls, s.publicBaseURL+"/"+blobName)
	}

	return urls, nil
}

// Download returns the blob bytes and a content type derived from the blob
// name extension. Missing blobs map to ErrBlobNotFound.
func (s *Storage) Download(ctx context.Context, blobName string) ([]byte, string, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &blobName,
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, "", ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("download %s: %w", blobName, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", blobName, err)
	}

	return data, ContentTypeFor(blobName), nil
}

func ContentTypeFor(blobName string) string {
	switch strings.ToLower(path.Ext(blobName)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
