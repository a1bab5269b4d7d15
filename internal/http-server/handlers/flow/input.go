package flow

import (
	"KolDesk/internal/lib/api/response"
	"KolDesk/internal/lib/sl"
	"KolDesk/orderflow"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type InputRequest struct {
	ConversationId string              `json:"conversation_id"`
	Input          orderflow.FormInput `json:"input"`
}

func Input(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.flow")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req InputRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if req.ConversationId == "" {
			render.JSON(w, r, response.Error("conversation_id is required"))
			return
		}

		logger = logger.With(
			slog.String("conversation", req.ConversationId),
			slog.String("form", string(req.Input.Form)),
		)

		err := handler.SubmitStepInput(r.Context(), req.ConversationId, req.Input)
		if err != nil {
			if errors.Is(err, orderflow.ErrInvalidInput) {
				logger.Debug("input rejected", sl.Err(err))
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, response.Error(err.Error()))
				return
			}
			logger.Error("submit step input", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Step failed: %v", err)))
			return
		}
		logger.Debug("step input applied")

		render.JSON(w, r, response.Ok(nil))
	}
}
