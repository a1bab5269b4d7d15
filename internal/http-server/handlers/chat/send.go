package chat

import (
	"KolDesk/entity"
	"KolDesk/internal/lib/api/response"
	"KolDesk/internal/lib/sl"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Send(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.chat")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.HttpUserMsg
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if req.Message == "" || req.UserUUID == "" || req.ConversationId == "" {
			logger.Error("missing message fields")
			render.JSON(w, r, response.Error("user_uuid, conversation_id and message are required"))
			return
		}

		logger = logger.With(slog.String("conversation", req.ConversationId))

		if err := handler.HandleUserMessage(r.Context(), req); err != nil {
			logger.Error("handle user message", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Message failed: %v", err)))
			return
		}
		logger.Debug("message handled")

		render.JSON(w, r, response.Ok(nil))
	}
}
