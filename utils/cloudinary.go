package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	models "github.com/phillip/nonprofit-site-go/models"
)

// ImageStore uploads and deletes hosted images.
type ImageStore interface {
	Upload(ctx context.Context, file multipart.File, folder string) (models.ImageMeta, error)
	Delete(ctx context.Context, image models.ImageMeta) error
}

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file multipart.File, folder string) (models.ImageMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return models.ImageMeta{}, fmt.Errorf("upload error: %w", err)
	}
	if resp.Error.Message != "" {
		return models.ImageMeta{}, fmt.Errorf("upload error: %s", resp.Error.Message)
	}

	return models.ImageMeta{
		Src:      resp.SecureURL,
		PublicID: resp.PublicID,
		Width:    resp.Width,
		Height:   resp.Height,
	}, nil
}

// Delete removes the image by public id, deriving it from the URL when the
// stored metadata predates public ids.
func (s *CloudinaryStore) Delete(ctx context.Context, image models.ImageMeta) error {
	publicID := image.PublicID
	if publicID == "" {
		id, err := extractPublicID(image.Src)
		if err != nil {
			return fmt.Errorf("could not extract public ID: %w", err)
		}
		publicID = id
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}

// extractPublicID turns
// https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg
// into "events/abc123".
func extractPublicID(imageURL string) (string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(parsed.Host, "cloudinary.com") {
		return "", fmt.Errorf("not a cloudinary URL: %s", imageURL)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	upload := -1
	for i, p := range parts {
		if p == "upload" {
			upload = i
			break
		}
	}
	if upload < 0 || upload == len(parts)-1 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}

	rest := parts[upload+1:]
	if len(rest) > 1 && isVersionSegment(rest[0]) {
		rest = rest[1:]
	}

	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))
	return path.Join(rest...), nil
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
