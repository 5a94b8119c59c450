// Package storage keeps barber avatars in S3-compatible object storage,
// normalized to square WebP images.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	domainbarber "github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
)

const (
	AvatarSize   = 512
	webpQuality  = 82
	maxUploadLen = 10 << 20
	keyPrefix    = "avatars/"
)

// ErrStorageDisabled is returned when no bucket is configured.
var ErrStorageDisabled = errors.New("avatar storage is not configured")

// ObjectAPI is the subset of *s3.Client the store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3AvatarStore struct {
	api       ObjectAPI
	bucket    string
	publicURL string
}

func NewS3Client(cfg config.S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		)
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// NewS3AvatarStore serves objects from publicURL, or from the virtual-host
// bucket URL when publicURL is empty.
func NewS3AvatarStore(api ObjectAPI, bucket, region, publicURL string) *S3AvatarStore {
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3AvatarStore{api: api, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *S3AvatarStore) Put(ctx context.Context, barberID uint, img io.Reader) (string, error) {
	body, err := Normalize(img)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s%d/%s.webp", keyPrefix, barberID, uuid.NewString())
	if _, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("image/webp"),
	}); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// Remove deletes the object behind url. URLs this store did not issue are
// ignored.
func (s *S3AvatarStore) Remove(ctx context.Context, url string) error {
	key, ok := s.keyOf(url)
	if !ok {
		return nil
	}
	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3AvatarStore) keyOf(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok || !strings.HasPrefix(key, keyPrefix) {
		return "", false
	}
	return key, true
}

// Normalize decodes any supported image, center-crops it to a square and
// encodes it as WebP at AvatarSize.
func Normalize(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, maxUploadLen))
	if err != nil {
		return nil, domainbarber.ErrInvalidImageType
	}

	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	dst := image.NewRGBA(image.Rect(0, 0, AvatarSize, AvatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// DisabledStore rejects uploads when no bucket is configured.
type DisabledStore struct{}

func (DisabledStore) Put(context.Context, uint, io.Reader) (string, error) {
	return "", ErrStorageDisabled
}

func (DisabledStore) Remove(context.Context, string) error {
	return nil
}
