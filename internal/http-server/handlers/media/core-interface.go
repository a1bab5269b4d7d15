package media

import (
	"KolDesk/entity"
	"context"
	"io"
)

type Core interface {
	UploadMedia(ctx context.Context, filename string, size int64, file io.Reader) (*entity.Media, error)
}
