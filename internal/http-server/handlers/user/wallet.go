package user

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

type WalletRequest struct {
	UserUUID string `json:"user_uuid"`
	Wallet   string `json:"wallet"`
}

func BindWallet(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.user")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req WalletRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if req.UserUUID == "" || req.Wallet == "" {
			render.JSON(w, r, response.Error("user_uuid and wallet are required"))
			return
		}

		logger = logger.With(slog.String("userUUID", req.UserUUID))

		if err := handler.BindWallet(r.Context(), req.UserUUID, req.Wallet); err != nil {
			logger.Error("bind wallet", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Wallet binding failed: %v", err)))
			return
		}
		logger.Debug("wallet bound")

		render.JSON(w, r, response.Ok(nil))
	}
}
