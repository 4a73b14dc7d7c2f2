package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

const (
	MaxImageSize = 5 << 20
	UploadsRoute = "/uploads/"
)

var allowedImageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

var imageContentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// StoredImage locates a saved image. URL is absolute when the store knows its public base.
type StoredImage struct {
	URL          string
	RelativePath string
}

// ImageStore persists uploaded images.
type ImageStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (StoredImage, error)
	// Delete removes an image previously returned by Save. References the store does not own
	// are ignored.
	Delete(ctx context.Context, ref string) error
}

// CheckImage accepts jpg, jpeg, png and webp files up to MaxImageSize whose content decodes as
// one of those formats. It returns the content type to store the image with.
func CheckImage(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errs.NewBadRequestError("No file uploaded")
	}
	if len(data) > MaxImageSize {
		return "", errs.NewMaxBodySizeExceededError(MaxImageSize)
	}
	if !allowedImageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return "", errs.NewBadRequestError("Images only!")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", errs.NewBadRequestError("Images only!")
	}
	contentType, ok := imageContentTypes[format]
	if !ok {
		return "", errs.NewBadRequestError("Images only!")
	}
	return contentType, nil
}

// NewImageName returns a unique object name that keeps the original extension.
func NewImageName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("image-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}

// RemoveImage deletes ref from store, logging instead of failing.
func RemoveImage(ctx context.Context, store ImageStore, ref string) {
	if store == nil || ref == "" {
		return
	}
	if err := store.Delete(ctx, ref); err != nil {
		log.Warn().Err(err).Str("image", ref).Msg("Failed to remove image")
	}
}

// LocalImageStore keeps images on disk and serves them under UploadsRoute.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) (*LocalImageStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the directory served under UploadsRoute.
func (s *LocalImageStore) Dir() string {
	return s.dir
}

func (s *LocalImageStore) Save(_ context.Context, name string, data []byte, _ string) (StoredImage, error) {
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return StoredImage{}, fmt.Errorf("writing image: %w", err)
	}
	rel := UploadsRoute + name
	return StoredImage{URL: s.baseURL + rel, RelativePath: rel}, nil
}

func (s *LocalImageStore) Delete(_ context.Context, ref string) error {
	rel := ref
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if s.baseURL == "" || !strings.HasPrefix(ref, s.baseURL+UploadsRoute) {
			return nil
		}
		rel = strings.TrimPrefix(ref, s.baseURL)
	}
	if !strings.HasPrefix(rel, UploadsRoute) {
		return nil
	}

	p := filepath.Join(s.dir, filepath.Base(rel))
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing image: %w", err)
	}
	return nil
}

// s3API is the part of the S3 client the image store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps images in an S3 compatible bucket.
type S3ImageStore struct {
	client    s3API
	bucket    string
	prefix    string
	publicURL string
}

func NewS3ImageStore(client s3API, bucket, publicURL string) *S3ImageStore {
	return &S3ImageStore{
		client:    client,
		bucket:    bucket,
		prefix:    "uploads",
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *S3ImageStore) Save(ctx context.Context, name string, data []byte, contentType string) (StoredImage, error) {
	key := path.Join(s.prefix, path.Base(name))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return StoredImage{}, fmt.Errorf("failed to upload to s3: %w", err)
	}
	return StoredImage{URL: s.publicURL + "/" + key, RelativePath: "/" + key}, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, ref string) error {
	var key string
	switch {
	case strings.HasPrefix(ref, s.publicURL+"/"):
		key = strings.TrimPrefix(ref, s.publicURL+"/")
	case strings.HasPrefix(ref, "/"+s.prefix+"/"):
		key = strings.TrimPrefix(ref, "/")
	default:
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from s3: %w", err)
	}
	return nil
}

// NewImageStoreFromConfig picks the store named by UPLOAD_DRIVER ("local" or "s3").
func NewImageStoreFromConfig(ctx context.Context, cfg map[string]string) (ImageStore, error) {
	switch driver := config.GetString(cfg, "UPLOAD_DRIVER", "local"); driver {
	case "local":
		return NewLocalImageStore(config.GetString(cfg, "UPLOAD_DIR", "uploads"), config.GetString(cfg, "PUBLIC_BASE_URL", ""))
	case "s3":
		bucket := config.GetString(cfg, "S3_BUCKET", "")
		if bucket == "" {
			return nil, errs.NewConfigMissingError("S3_BUCKET")
		}
		region := config.GetString(cfg, "S3_REGION", "us-east-1")
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return nil, errs.NewConfigError("aws", err)
		}
		endpoint := config.GetString(cfg, "S3_ENDPOINT", "")
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
				o.UsePathStyle = true
			}
		})
		publicURL := config.GetString(cfg, "S3_PUBLIC_URL", fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region))
		return NewS3ImageStore(client, bucket, publicURL), nil
	default:
		return nil, errs.NewConfigError("UPLOAD_DRIVER="+driver, fmt.Errorf("unsupported upload driver %q", driver))
	}
}
