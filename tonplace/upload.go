package tonplace

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	// DefaultAlbumID is the album uploads land in unless told otherwise.
	DefaultAlbumID  = -3
	defaultFileName = "blob"

	uploadPhotos = "photos"
	uploadVideo  = "video"
)

// UploadOption configures a media upload.
type UploadOption func(*uploadOptions)

type uploadOptions struct {
	albumID  int
	fileName string
}

// WithAlbum uploads into a specific album.
func WithAlbum(albumID int) UploadOption {
	return func(o *uploadOptions) {
		o.albumID = albumID
	}
}

// WithFileName sets the file name reported in the multipart form.
func WithFileName(name string) UploadOption {
	return func(o *uploadOptions) {
		if name != "" {
			o.fileName = name
		}
	}
}

// UploadPhoto uploads a JPEG image
func (c *Client) UploadPhoto(ctx context.Context, data []byte, opts ...UploadOption) (*Result, error) {
	return c.upload(ctx, uploadPhotos, "image/jpeg", data, opts)
}

// UploadVideo uploads an MP4 video
func (c *Client) UploadVideo(ctx context.Context, data []byte, opts ...UploadOption) (*Result, error) {
	return c.upload(ctx, uploadVideo, "video/mp4", data, opts)
}

// upload posts a multipart form to the upload host. Uploads bypass the retry
// policy.
func (c *Client) upload(ctx context.Context, kind, contentType string, data []byte, opts []UploadOption) (*Result, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	o := uploadOptions{albumID: DefaultAlbumID, fileName: defaultFileName}
	for _, opt := range opts {
		opt(&o)
	}

	path := kind + "/upload"
	started := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", o.fileName, contentType, bytes.NewReader(data)).
		SetMultipartFormData(map[string]string{
			"album_id": strconv.Itoa(o.albumID),
		}).
		Post(c.uploadURL + path)
	if err != nil {
		err = fmt.Errorf("upload failed: %w", err)
		c.metrics.observe("POST", path, started, err)
		return nil, err
	}

	result, err := classify(resp.StatusCode(), resp.Body(), c.returnErrors)
	c.metrics.observe("POST", path, started, err)

	c.logger.Debug().
		Str("kind", kind).
		Int("bytes", len(data)).
		Int("album_id", o.albumID).
		Int("status", resp.StatusCode()).
		Msg("TonPlace media upload")

	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", kind, err)
	}
	return result, nil
}
