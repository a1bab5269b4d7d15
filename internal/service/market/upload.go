package market

import (
	"KolDesk/entity"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// UploadImage streams a promotional image to the marketplace media
// store and returns its hosted location.
func (s *MarketService) UploadImage(ctx context.Context, filename string, size int64, file io.Reader) (*entity.Media, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !entity.AllowedImageTypes[ext] {
		return nil, fmt.Errorf("unsupported image type: %s", ext)
	}
	if size > entity.MaxImageSize {
		return nil, fmt.Errorf("image too large: %d bytes", size)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(file, entity.MaxImageSize)); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/media", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload: status %d: %s", resp.StatusCode, raw)
	}

	var media entity.Media
	if err := decodeEnvelope(raw, &media); err != nil {
		return nil, err
	}
	media.Type = ext
	media.Size = size
	return &media, nil
}
