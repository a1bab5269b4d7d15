package media

import (
	"KolDesk/entity"
	"KolDesk/internal/lib/api/response"
	"KolDesk/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Upload(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.media")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := r.ParseMultipartForm(entity.MaxImageSize); err != nil {
			logger.Error("parse multipart form", sl.Err(err))
			render.JSON(w, r, response.Error("Invalid upload"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			logger.Error("read form file", sl.Err(err))
			render.JSON(w, r, response.Error("No file provided"))
			return
		}
		defer file.Close()

		if header.Size > entity.MaxImageSize {
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error("Image exceeds the 5MB limit"))
			return
		}

		uploaded, err := handler.UploadMedia(r.Context(), header.Filename, header.Size, file)
		if err != nil {
			logger.Error("upload media", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Upload failed: %v", err)))
			return
		}

		logger.With(slog.String("url", uploaded.Url)).Debug("media uploaded")
		render.JSON(w, r, response.Ok(uploaded))
	}
}
