package main

import (
	"KolDesk/ai/assistant"
	"KolDesk/impl/core"
	"KolDesk/internal/config"
	repository "KolDesk/internal/database"
	"KolDesk/internal/http-server/api"
	"KolDesk/internal/lib/logger"
	"KolDesk/internal/lib/sl"
	"KolDesk/internal/service/auth"
	"KolDesk/internal/service/chain"
	"KolDesk/internal/service/market"
	"KolDesk/internal/service/notify"
	"KolDesk/internal/ws"
	"flag"
	"log/slog"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	tg, err := notify.NewTelegram(conf)
	if err != nil {
		lg.Error("failed to initialize telegram notifier", slog.String("error", err.Error()))
	}
	if tg != nil {
		lg = logger.SetupNotifyHandler(lg, tg, slog.LevelError)
		lg.With(
			slog.String("bot_name", conf.Telegram.BotName),
		).Info("telegram notifier initialized")
	}

	lg.Info("starting koldesk", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetChainParams(conf.Chain.ChainID, conf.Chain.PayeeAddress)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		handler.SetRepository(db)
		handler.SetAuthService(auth.NewAuthService(db, lg))
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	ms := market.NewMarketService(conf, lg)
	if ms != nil {
		handler.SetMarketService(ms)
		lg.With(
			slog.String("url", conf.Market.BaseURL),
		).Info("market service initialized")
	}

	cs := chain.NewChainService(conf, lg)
	if cs != nil {
		handler.SetChainService(cs)
		lg.With(
			slog.String("bridge", conf.Chain.BridgeURL),
			slog.Int64("chain_id", conf.Chain.ChainID),
		).Info("chain service initialized")
	}

	ass := assistant.NewAssistant(conf, lg)
	if ass != nil {
		ass.SetMarketService(ms)
		handler.SetAssistant(ass)
		lg.With(
			sl.Secret("openai_key", conf.OpenAI.ApiKey),
			sl.Secret("assistant_id", conf.OpenAI.AssistantID),
		).Info("assistant initialized")
	}

	hub := ws.NewHub(lg)
	go hub.Run()
	handler.SetBroadcaster(hub)

	handler.Init()

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
