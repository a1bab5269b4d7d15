package flow

import (
	"KolDesk/internal/lib/api/response"
	"KolDesk/internal/lib/sl"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type ConversationRequest struct {
	ConversationId string `json:"conversation_id"`
	Reason         string `json:"reason,omitempty"`
}

func Back(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.flow")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req ConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if req.ConversationId == "" {
			render.JSON(w, r, response.Error("conversation_id is required"))
			return
		}

		if err := handler.GoBackStep(r.Context(), req.ConversationId); err != nil {
			logger.Error("go back", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Go back failed: %v", err)))
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
