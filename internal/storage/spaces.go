// Package storage uploads student resumes to DigitalOcean Spaces and hands
// back the public URL that application records reference.
package storage

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/bmgvallo/hirearchy-gateway/internal/config"
	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
	"github.com/bmgvallo/hirearchy-gateway/pkg/utils"
)

// allowed resume content types, keyed by upload Content-Type
var resumeExtensions = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// ResumeStorage is the upload surface the resume handler depends on
type ResumeStorage interface {
	UploadResume(studentID string, contentType string, data []byte) (*models.UploadResponse, error)
	IsHealthy() bool
}

// SpacesClient stores resumes in a DigitalOcean Spaces bucket
type SpacesClient struct {
	client         *s3.S3
	bucketName     string
	bucketURL      string
	cdnURL         string
	maxUploadBytes int64
	logger         logging.Logger
}

// NewSpacesClient creates a Spaces client from config
func NewSpacesClient(cfg *config.Config, logger logging.Logger) (*SpacesClient, error) {
	if cfg.Spaces.AccessKeyID == "" || cfg.Spaces.AccessKeySecret == "" {
		return nil, fmt.Errorf("spaces credentials are required")
	}
	if cfg.Spaces.BucketName == "" {
		return nil, fmt.Errorf("spaces bucket name is required")
	}

	endpoint := fmt.Sprintf("https://%s.digitaloceanspaces.com", cfg.Spaces.Region)

	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			cfg.Spaces.AccessKeyID,
			cfg.Spaces.AccessKeySecret,
			"",
		),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(cfg.Spaces.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spaces session: %w", err)
	}

	logger.Info("Resume storage initialized", map[string]interface{}{
		"bucket_name": cfg.Spaces.BucketName,
		"region":      cfg.Spaces.Region,
		"endpoint":    endpoint,
	})

	return &SpacesClient{
		client:         s3.New(sess),
		bucketName:     cfg.Spaces.BucketName,
		bucketURL:      cfg.Spaces.BucketURL,
		cdnURL:         cfg.Spaces.CDNEndpoint,
		maxUploadBytes: cfg.Spaces.MaxUploadBytes,
		logger:         logger,
	}, nil
}

// UploadResume stores a resume document under a fresh key and returns its
// public URL. Re-uploads do not overwrite earlier documents, so application
// records created against an old resume keep pointing at the file the company
// actually reviewed.
func (sc *SpacesClient) UploadResume(studentID string, contentType string, data []byte) (*models.UploadResponse, error) {
	ext, ok := resumeExtensions[contentType]
	if !ok {
		return nil, utils.NewValidationError(fmt.Sprintf("unsupported resume content type %q", contentType))
	}
	if sc.maxUploadBytes > 0 && int64(len(data)) > sc.maxUploadBytes {
		return nil, utils.NewValidationError(fmt.Sprintf("resume exceeds %d bytes", sc.maxUploadBytes))
	}
	if len(data) == 0 {
		return nil, utils.NewValidationError("resume file is empty")
	}

	objectKey := path.Join("resumes", studentID, uuid.New().String()+ext)

	_, err := sc.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(sc.bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		sc.logger.Error("Failed to upload resume", map[string]interface{}{
			"student_id": studentID,
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return nil, utils.NewUpstreamError(fmt.Sprintf("failed to upload resume: %v", err))
	}

	resumeURL := sc.publicURL(objectKey)
	sc.logger.Info("Resume uploaded", map[string]interface{}{
		"student_id": studentID,
		"object_key": objectKey,
		"size_bytes": len(data),
		"url":        resumeURL,
	})

	return &models.UploadResponse{
		URL:       resumeURL,
		Key:       objectKey,
		SizeBytes: int64(len(data)),
		Timestamp: time.Now().UTC(),
	}, nil
}

// publicURL prefers the CDN endpoint, then the bucket URL, then the
// region-derived hostname
func (sc *SpacesClient) publicURL(objectKey string) string {
	if sc.cdnURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(sc.cdnURL, "/"), objectKey)
	}
	if sc.bucketURL != "" {
		base := strings.TrimRight(sc.bucketURL, "/")
		if !strings.HasPrefix(base, "https://") {
			base = "https://" + base
		}
		return fmt.Sprintf("%s/%s", base, objectKey)
	}
	region := ""
	if sc.client.Config.Region != nil {
		region = *sc.client.Config.Region
	}
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", sc.bucketName, region, objectKey)
}

// IsHealthy checks if the bucket is reachable
func (sc *SpacesClient) IsHealthy() bool {
	_, err := sc.client.HeadBucket(&s3.HeadBucketInput{
		Bucket: aws.String(sc.bucketName),
	})
	if err != nil {
		sc.logger.Error("Resume storage health check failed", map[string]interface{}{
			"bucket_name": sc.bucketName,
			"error":       err.Error(),
		})
		return false
	}
	return true
}
