package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/aumigobot/aumigobot/internal/adoptions"
	"github.com/aumigobot/aumigobot/internal/config"
	"github.com/aumigobot/aumigobot/internal/db"
	"github.com/aumigobot/aumigobot/internal/dialogue"
	"github.com/aumigobot/aumigobot/internal/handlers"
	"github.com/aumigobot/aumigobot/internal/intents"
	"github.com/aumigobot/aumigobot/internal/logger"
	"github.com/aumigobot/aumigobot/internal/media"
	"github.com/aumigobot/aumigobot/internal/pets"
	"github.com/aumigobot/aumigobot/internal/prune"
	"github.com/aumigobot/aumigobot/internal/server"
	"github.com/aumigobot/aumigobot/internal/session"
	"github.com/aumigobot/aumigobot/internal/speech"
	"github.com/aumigobot/aumigobot/internal/storage"
	"github.com/aumigobot/aumigobot/internal/storage/providers/localfs"
	"github.com/aumigobot/aumigobot/internal/users"
	"github.com/aumigobot/aumigobot/internal/version"
	"github.com/aumigobot/aumigobot/internal/vision"
	"github.com/aumigobot/aumigobot/internal/webhook"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDBConn,
			provideStorageProvider,
			provideVisionClient,
			provideSpeechClient,
			provideDialogueClient,
			provideSessionStore,
			provideNormalizer,
			provideProcessor,
			providePetService,
			provideUserService,
			provideAdoptionService,
			provideResponder,
			provideDispatcher,
			providePruneService,
			provideServerHandler(providePingHandler),
			provideServerHandler(provideWebhookHandler),
			provideServerHandler(provideFulfillmentHandler),
			provideServerHandler(provideRecordsHandler),
			provideServer,
		),
		fx.Invoke(
			startPruneService,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { conn.Close(); return nil }})
	return conn, nil
}

func provideStorageProvider(cfg config.Config) (storage.Provider, error) {
	provider, err := localfs.New(cfg.Storage.DataRoot, cfg.Storage.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("init storage provider: %w", err)
	}
	return provider, nil
}

func provideVisionClient(log *slog.Logger, cfg config.Config) vision.Detector {
	return vision.NewClient(log, cfg.Vision.BaseURL, cfg.Vision.APIKey,
		time.Duration(cfg.Vision.TimeoutSeconds)*time.Second)
}

func provideSpeechClient(log *slog.Logger, cfg config.Config, provider storage.Provider) speech.Synthesizer {
	return speech.NewClient(log, cfg.Speech.BaseURL, cfg.Speech.APIKey, cfg.Speech.VoiceID,
		time.Duration(cfg.Speech.TimeoutSeconds)*time.Second, provider)
}

func provideDialogueClient(log *slog.Logger, cfg config.Config) dialogue.Engine {
	return dialogue.NewClient(log, cfg.Dialogue.BaseURL, cfg.Dialogue.BotID, cfg.Dialogue.BotAliasID,
		cfg.Dialogue.LocaleID, time.Duration(cfg.Dialogue.TimeoutSeconds)*time.Second)
}

func provideSessionStore(log *slog.Logger, conn *pgxpool.Pool) *session.Store {
	return session.NewStore(log, conn)
}

func provideNormalizer(log *slog.Logger, cfg config.Config, provider storage.Provider, detector vision.Detector) webhook.Normalizer {
	return media.NewNormalizer(log, provider, detector,
		cfg.Twilio.AccountSID, cfg.Twilio.AuthToken,
		time.Duration(cfg.Vision.TimeoutSeconds)*time.Second)
}

func provideProcessor(log *slog.Logger, normalizer webhook.Normalizer, sessions *session.Store, engine dialogue.Engine) *webhook.Processor {
	return webhook.NewProcessor(log, normalizer, sessions, engine)
}

func providePetService(log *slog.Logger, conn *pgxpool.Pool) *pets.Service {
	return pets.NewService(log, conn)
}

func provideUserService(log *slog.Logger, conn *pgxpool.Pool) *users.Service {
	return users.NewService(log, conn)
}

func provideAdoptionService(log *slog.Logger, conn *pgxpool.Pool) *adoptions.Service {
	return adoptions.NewService(log, conn)
}

func provideResponder(log *slog.Logger, tts speech.Synthesizer) *intents.Responder {
	return intents.NewResponder(log, tts)
}

func provideDispatcher(log *slog.Logger, responder *intents.Responder, petService *pets.Service, userService *users.Service, adoptionService *adoptions.Service, cfg config.Config, provider storage.Provider) *intents.Dispatcher {
	return intents.NewDispatcher(log, responder, petService, userService, adoptionService,
		provider.AccessURL(cfg.Storage.DonationQRKey))
}

func providePruneService(log *slog.Logger, cfg config.Config, sessions *session.Store) *prune.Service {
	return prune.NewService(log, sessions, cfg.Retention.PruneSchedule,
		time.Duration(cfg.Retention.SessionTTLHours)*time.Hour)
}

func providePingHandler(log *slog.Logger) *handlers.PingHandler {
	return handlers.NewPingHandler(log)
}

func provideWebhookHandler(log *slog.Logger, cfg config.Config, processor *webhook.Processor) *handlers.WebhookHandler {
	return handlers.NewWebhookHandler(log, processor, cfg.Server.ExposeInternalErrors)
}

func provideFulfillmentHandler(log *slog.Logger, dispatcher *intents.Dispatcher) *handlers.FulfillmentHandler {
	return handlers.NewFulfillmentHandler(log, dispatcher)
}

func provideRecordsHandler(log *slog.Logger, petService *pets.Service, userService *users.Service, adoptionService *adoptions.Service) *handlers.RecordsHandler {
	return handlers.NewRecordsHandler(log, petService, userService, adoptionService)
}

type serverParams struct {
	fx.In
	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.New(params.Logger, params.Config.Server.Addr, params.Config.Server.JWTSecret, params.ServerHandlers)
}

func startPruneService(lc fx.Lifecycle, pruneService *prune.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return pruneService.Start() },
		OnStop:  func(ctx context.Context) error { return pruneService.Stop(ctx) },
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting Aumigobot %s\n", version.GetInfo())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
