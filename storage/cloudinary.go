package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/rs/zerolog/log"
)

var ErrUploadsDisabled = errors.New("image uploads are not configured")

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, data, folder, publicID string) (string, error)
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

var Uploader ImageUploader = disabledUploader{}

// InitializeCloudinary wires the global Uploader. An empty url keeps uploads disabled.
func InitializeCloudinary(url string) {
	if url == "" {
		log.Warn().Msg("CLOUDINARY_URL not set, image uploads disabled")
		return
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		log.Error().Err(err).Msg("invalid CLOUDINARY_URL, image uploads disabled")
		return
	}
	Uploader = &CloudinaryUploader{cld: cld}
}

// UploadImage accepts a data URL or raw base64 payload.
func (c *CloudinaryUploader) UploadImage(ctx context.Context, data, folder, publicID string) (string, error) {
	if data == "" {
		return "", errors.New("empty image payload")
	}
	if !strings.HasPrefix(data, "data:") && !strings.HasPrefix(data, "http") {
		data = "data:image/jpeg;base64," + data
	}

	res, err := c.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

type disabledUploader struct{}

func (disabledUploader) UploadImage(context.Context, string, string, string) (string, error) {
	return "", ErrUploadsDisabled
}
