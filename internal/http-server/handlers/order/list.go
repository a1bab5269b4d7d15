package order

import (
	"KolDesk/internal/lib/api/response"
	"KolDesk/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.order")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userUUID := chi.URLParam(r, "user_uuid")
		if userUUID == "" {
			render.JSON(w, r, response.Error("user_uuid is required"))
			return
		}

		orders, err := handler.GetOrders(r.Context(), userUUID)
		if err != nil {
			logger.Error("list orders", sl.Err(err))
			render.JSON(w, r, response.Error("Failed to list orders"))
			return
		}

		render.JSON(w, r, response.Ok(orders))
	}
}
