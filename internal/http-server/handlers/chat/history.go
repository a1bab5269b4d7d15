package chat

import (
	"KolDesk/internal/lib/api/response"
	"KolDesk/internal/lib/sl"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func History(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.chat")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		conversationId := chi.URLParam(r, "conversation_id")
		if conversationId == "" {
			render.JSON(w, r, response.Error("conversation_id is required"))
			return
		}

		limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

		messages, err := handler.GetConversation(r.Context(), conversationId, limit)
		if err != nil {
			logger.Error("get conversation", sl.Err(err))
			render.JSON(w, r, response.Error("Failed to load conversation"))
			return
		}

		render.JSON(w, r, response.Ok(messages))
	}
}
