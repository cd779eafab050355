package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"

	"github.com/trichbarbershop/barber-queue/internal/config"
)

const (
	maxAvatarEdge = 512
	webpQuality   = 85
)

// AvatarStore re-encodes uploaded avatars to webp and puts them in an
// S3-compatible bucket.
type AvatarStore struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func NewAvatarStore(cfg *config.Config) *AvatarStore {
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return &AvatarStore{}
	}

	awsCfg := aws.Config{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := cfg.S3Endpoint
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	} else {
		publicBase = strings.TrimRight(publicBase, "/") + "/" + cfg.S3Bucket
	}

	return &AvatarStore{
		client:     client,
		bucket:     cfg.S3Bucket,
		publicBase: publicBase,
	}
}

func (s *AvatarStore) Configured() bool {
	return s.client != nil
}

// Put stores the avatar for userID and returns its public URL.
func (s *AvatarStore) Put(ctx context.Context, userID string, r io.Reader) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("avatar storage not configured")
	}

	encoded, err := EncodeWebP(r)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s.webp", userID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(encoded),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("put avatar: %w", err)
	}

	return s.publicBase + "/" + key, nil
}

// EncodeWebP decodes any registered image format, downscales to at
// most maxAvatarEdge on the long side and re-encodes as webp.
func EncodeWebP(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}

	src = downscale(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func downscale(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxAvatarEdge && h <= maxAvatarEdge {
		return src
	}

	if w >= h {
		h = h * maxAvatarEdge / w
		w = maxAvatarEdge
	} else {
		w = w * maxAvatarEdge / h
		h = maxAvatarEdge
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
