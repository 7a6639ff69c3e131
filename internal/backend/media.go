package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ewahlberg/pressgang/internal/errors"
)

const resourceMedia = "media"

// maxUploadSize bounds the multipart body buffered for an upload.
const maxUploadSize = 64 << 20 // 64 MiB

// ListMedia fetches a page of media assets.
func (c *Client) ListMedia(ctx context.Context, opts ListOptions) (*MediaList, error) {
	var list MediaList
	if err := c.get(ctx, resourceMedia, "/media", listQuery(opts), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UploadMedia streams a file to the backend media store as multipart form
// data and invalidates cached media reads.
func (c *Client) UploadMedia(ctx context.Context, fileName, mimeType string, r io.Reader) (*Media, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryMediaUpload).
			Component("backend").
			Context("operation", "create-form-file").
			Build()
	}

	written, err := io.Copy(part, io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryMediaUpload).
			Component("backend").
			Context("operation", "buffer-upload").
			Build()
	}
	if written > maxUploadSize {
		return nil, errors.Newf("upload exceeds maximum size of %d bytes", maxUploadSize).
			Category(errors.CategoryMediaUpload).
			Component("backend").
			Build()
	}
	if err := mw.Close(); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryMediaUpload).
			Component("backend").
			Build()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		// Uploads get a longer leash than regular API calls
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 4*c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/media", &buf)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryMediaUpload).
			Component("backend").
			Build()
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		if c.onRequest != nil {
			c.onRequest(resourceMedia, http.MethodPost, 0, duration)
		}
		return nil, errors.New(err).
			Category(errors.CategoryNetwork).
			Component("backend").
			Context("operation", "upload-media").
			Build()
	}
	defer resp.Body.Close()

	if c.onRequest != nil {
		c.onRequest(resourceMedia, http.MethodPost, resp.StatusCode, duration)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryNetwork).
			Component("backend").
			Context("operation", "read-upload-response").
			Build()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp.StatusCode, resourceMedia, body)
	}

	c.Invalidate(resourceMedia)

	var media Media
	if err := unmarshalResponse(body, &media); err != nil {
		return nil, err
	}
	return &media, nil
}

// DeleteMedia deletes a media asset and invalidates cached media reads.
func (c *Client) DeleteMedia(ctx context.Context, id int64) error {
	return c.mutate(ctx, resourceMedia, "DELETE", fmt.Sprintf("/media/id/%d", id), nil, nil)
}
