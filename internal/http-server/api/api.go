package api

import (
	"KolDesk/internal/config"
	"KolDesk/internal/http-server/handlers/chat"
	"KolDesk/internal/http-server/handlers/errors"
	"KolDesk/internal/http-server/handlers/flow"
	"KolDesk/internal/http-server/handlers/key"
	"KolDesk/internal/http-server/handlers/kol"
	"KolDesk/internal/http-server/handlers/media"
	"KolDesk/internal/http-server/handlers/order"
	"KolDesk/internal/http-server/handlers/user"
	"KolDesk/internal/http-server/middleware/authenticate"
	"KolDesk/internal/http-server/middleware/timeout"
	"KolDesk/internal/lib/sl"
	"KolDesk/internal/ws"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	chat.Core
	flow.Core
	kol.Core
	media.Core
	order.Core
	user.Core
	key.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	// The websocket carries its key as a query parameter; everything
	// else authenticates with a bearer token.
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, handler, log, w, r)
	})

	router.Group(func(g chi.Router) {
		g.Use(render.SetContentType(render.ContentTypeJSON))
		g.Use(authenticate.New(log, handler))

		g.Route("/api/v1", func(v1 chi.Router) {
			v1.Route("/chat", func(r chi.Router) {
				r.Post("/send", chat.Send(log, handler))
				r.Get("/{conversation_id}", chat.History(log, handler))
			})
			v1.Route("/flow", func(r chi.Router) {
				r.Post("/input", flow.Input(log, handler))
				r.Post("/back", flow.Back(log, handler))
				r.Post("/retry", flow.Retry(log, handler))
				r.Post("/cancel", flow.Cancel(log, handler))
			})
			v1.Route("/kols", func(r chi.Router) {
				r.Get("/", kol.List(log, handler))
			})
			v1.Route("/media", func(r chi.Router) {
				r.Post("/upload", media.Upload(log, handler))
			})
			v1.Route("/orders", func(r chi.Router) {
				r.Get("/{user_uuid}", order.List(log, handler))
			})
			v1.Route("/user", func(r chi.Router) {
				r.Post("/wallet", user.BindWallet(log, handler))
			})
			v1.Route("/key", func(r chi.Router) {
				r.Post("/new", key.Generate(log, handler))
			})
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
