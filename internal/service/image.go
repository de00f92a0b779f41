package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"planie.app/api/common/id"
	"planie.app/api/internal/model"
	"planie.app/api/internal/store"
)

// ErrInvalidImage is returned for uploads that are empty, too large, or not an image.
var ErrInvalidImage = errors.New("invalid image")

// ImageUpload carries the raw bytes of an uploaded file.
type ImageUpload struct {
	Data []byte
}

// detectImage sniffs the upload and returns its MIME type.
func detectImage(img *ImageUpload, maxBytes int64) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	if maxBytes > 0 && int64(len(img.Data)) > maxBytes {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrInvalidImage, maxBytes)
	}

	mime, _, _ := strings.Cut(mimetype.Detect(img.Data).String(), ";")
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: unsupported type %s", ErrInvalidImage, mime)
	}
	return mime, nil
}

// materializeImage stores the blob and returns it as a data URI built from
// the stored copy.
func materializeImage(ctx context.Context, images store.ImageStore, mime string, data []byte) (string, error) {
	img := &model.Image{
		ID:          id.New(),
		ContentType: mime,
		Data:        data,
	}
	if err := images.Store(ctx, img); err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}

	stored, err := images.Get(ctx, img.ID)
	if err != nil {
		return "", fmt.Errorf("reading stored image: %w", err)
	}

	return dataURI(stored.ContentType, stored.Data), nil
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
