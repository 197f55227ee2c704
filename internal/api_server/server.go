package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/esgdesk/extraction-review/internal/classifier"
	"github.com/esgdesk/extraction-review/internal/config"
	"github.com/esgdesk/extraction-review/internal/events"
	handlers "github.com/esgdesk/extraction-review/internal/handlers/v1alpha1"
	"github.com/esgdesk/extraction-review/internal/service"
	"github.com/esgdesk/extraction-review/internal/storage"
	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/pkg/metrics"
	"github.com/esgdesk/extraction-review/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
	readHeaderTimeout       = 10 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the review API server.
func New(cfg *config.Config, store store.Store, listener net.Listener) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	logger := zap.S().Named("api_server")
	logger.Info("Initializing API server")

	objectStorage, err := storage.NewMinioStorage(ctx,
		storage.WithEndpoint(s.cfg.Service.S3.Endpoint),
		storage.WithBucket(s.cfg.Service.S3.Bucket),
		storage.WithCredentials(s.cfg.Service.S3.AccessKey, s.cfg.Service.S3.SecretKey),
		storage.WithSSL(s.cfg.Service.S3.UseSSL),
	)
	if err != nil {
		return fmt.Errorf("failed to create object storage: %w", err)
	}

	classifierClient, err := classifier.NewClient(
		s.cfg.Service.Classifier.URL,
		s.cfg.Service.Classifier.APIKey,
		s.cfg.Service.Classifier.Timeout,
	)
	if err != nil {
		return fmt.Errorf("failed to create classifier client: %w", err)
	}

	broadcaster := events.NewBroadcaster()
	writers := events.MultiWriter{broadcaster}
	if s.cfg.Service.Events.StdoutEnabled {
		writers = append(writers, &events.StdoutWriter{})
	}
	producer := events.NewEventProducer(writers, events.WithOutputTopic(s.cfg.Service.Events.Topic))
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Warnw("failed to close event producer", "error", err)
		}
	}()

	audit := service.NewAuditWriter(s.store, producer)
	h := handlers.NewServiceHandler(
		service.NewReviewService(s.store),
		service.NewApprovalService(s.store, audit),
		audit,
		service.NewDocumentService(s.store, objectStorage, classifierClient, producer),
		handlers.WithBroadcaster(broadcaster),
		handlers.WithMaxUploadBytes(s.cfg.Service.MaxUploadBytes),
	)

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegister(nil)

	router := chi.NewRouter()
	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Service.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)
	h.RegisterRoutes(router)

	// No WriteTimeout: the approval log stream stays open for the life of the client.
	srv := http.Server{
		Addr:              s.cfg.Service.Address,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		logger.Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = broadcaster.Close(ctxTimeout)
		_ = srv.Shutdown(ctxTimeout)
		logger.Info("api server terminated")
	}()

	logger.Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
