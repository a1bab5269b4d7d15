package kol

import (
	"KolDesk/internal/lib/api/response"
	"KolDesk/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.kol")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		kols, err := handler.ListKols(r.Context())
		if err != nil {
			logger.Error("list influencers", sl.Err(err))
			render.JSON(w, r, response.Error("Failed to list influencers"))
			return
		}

		render.JSON(w, r, response.Ok(kols))
	}
}
