// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/config"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/models"
)

const productImageFolder = "products"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// StorageService stores product images in S3 when credentials are configured
// and on the local disk otherwise.
type StorageService struct {
	s3Client s3iface.S3API
	aws      config.AWSConfig
	storage  config.StorageConfig
	gate     *AuthorizationService
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

func NewStorageService(cfg *config.Config, gate *AuthorizationService) (*StorageService, error) {
	svc := &StorageService{
		aws:     cfg.AWS,
		storage: cfg.Storage,
		gate:    gate,
	}
	if cfg.AWS.AccessKeyID == "" {
		// Local storage for development
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

// UploadImage stores a product image for actor. The content type is sniffed
// from the bytes; the client's filename and headers are not trusted.
func (s *StorageService) UploadImage(ctx context.Context, actor *models.User, r io.Reader) (*UploadResult, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, err
	}

	limit := s.storage.MaxUploadBytes
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}
	if len(data) == 0 {
		return nil, apperrors.Validation(i18n.KeyUploadMissingFile, nil)
	}
	if int64(len(data)) > limit {
		return nil, apperrors.Validation(i18n.KeyUploadTooLarge, nil).WithArgs(limit)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, apperrors.Validation(i18n.KeyUploadInvalidType, nil)
	}

	key := s.generateFileName(mtype.Extension(), productImageFolder)

	var result *UploadResult
	if s.s3Client != nil {
		result, err = s.uploadToS3(ctx, data, key, mtype.String())
	} else {
		result, err = s.uploadToLocal(data, key, mtype.String())
	}
	if err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	logrus.WithFields(logrus.Fields{
		"key":     result.Key,
		"size":    result.Size,
		"user_id": actor.ID,
	}).Info("Image uploaded")
	return result, nil
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(data []byte, key, contentType string) (*UploadResult, error) {
	target := filepath.Join(s.storage.LocalDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &UploadResult{
		URL:      strings.TrimRight(s.storage.PublicBaseURL, "/") + "/" + key,
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) generateFileName(ext, folder string) string {
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, uuid.New().String(), ext)
	return path.Join(folder, filename)
}

func (s *StorageService) getS3URL(key string) string {
	if s.aws.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.aws.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.aws.S3Bucket, s.aws.Region, key)
}
