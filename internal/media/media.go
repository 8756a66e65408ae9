// Package media forwards uploaded files to the image host and hands back a
// durable HTTPS URL.
//
// Upload is synchronous: the caller waits until the host acknowledges.
// Every failure wraps ErrUpload so handlers can tell a host problem from a
// bad request.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/config"
	"github.com/rokibulislampro/mnly-server/internal/metrics"
)

// ErrUpload marks a failed upload.
var ErrUpload = errors.New("media: upload failed")

// Uploader is what handlers depend on.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename, folder string) (string, error)
}

// uploadAPI is the part of the Cloudinary SDK the adapter calls.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// Cloudinary uploads through the Cloudinary upload API.
type Cloudinary struct {
	api uploadAPI
	log *zap.Logger
}

// NewCloudinary builds the adapter from configuration.
func NewCloudinary(cfg config.Media, log *zap.Logger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return newCloudinary(&cld.Upload, log), nil
}

func newCloudinary(a uploadAPI, log *zap.Logger) *Cloudinary {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cloudinary{api: a, log: log}
}

// Upload sends r to folder and returns the secure URL.
func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, filename, folder string) (string, error) {
	url, err := c.upload(ctx, r, filename, folder)
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		c.log.Warn("media upload failed", zap.String("file", filename), zap.String("folder", folder), zap.Error(err))
		return "", err
	}
	metrics.MediaUploadsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	c.log.Debug("media uploaded", zap.String("file", filename), zap.String("url", url))
	return url, nil
}

func (c *Cloudinary) upload(ctx context.Context, r io.Reader, filename, folder string) (string, error) {
	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID(filename),
		UniqueFilename: api.Bool(true),
	}
	resp, err := c.api.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", ErrUpload)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUpload, resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("%w: host returned no url", ErrUpload)
	}
	return resp.SecureURL, nil
}

// publicID derives a readable id from the client filename; the host adds a
// unique suffix.  An unusable name lets the host pick the id.
func publicID(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	id := strings.Trim(b.String(), "-")
	if len(id) > 64 {
		id = id[:64]
	}
	return id
}
