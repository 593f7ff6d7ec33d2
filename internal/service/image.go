package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ImageStore resolves an uploaded image payload to a retrievable URL.
type ImageStore interface {
	Store(ctx context.Context, data []byte, contentType string) (string, error)
}

// S3ImageStore uploads recipe images to S3 and returns their public URL.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

func (s *S3ImageStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := "bin"
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	key := fmt.Sprintf("recipes/images/%s.%s", uuid.New().String(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}

// DecodeImageDataURI decodes a "data:image/<type>;base64,<payload>" string.
func DecodeImageDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("image must be a base64 data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, "", fmt.Errorf("malformed image data URI")
	}
	contentType, _, _ := strings.Cut(meta, ";")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("image payload has unsupported content type %q", contentType)
	}
	if !strings.Contains(meta, "base64") {
		return nil, "", fmt.Errorf("image data URI must be base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image payload is empty")
	}
	return data, contentType, nil
}
