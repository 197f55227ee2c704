package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MetricServer struct {
	bindAddress string
	httpServer  *http.Server
	listener    net.Listener
}

// NewMetricServer serves /metrics. When s is not nil the pending queue gauges are
// registered as well.
func NewMetricServer(bindAddress string, listener net.Listener, s store.Store) *MetricServer {
	if s != nil {
		metrics.RegisterPendingPreviewsCollector(s)
	}

	router := chi.NewRouter()
	router.Handle("/metrics", metrics.Handler())

	return &MetricServer{
		bindAddress: bindAddress,
		listener:    listener,
		httpServer: &http.Server{
			Addr:              bindAddress,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

func (m *MetricServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		m.httpServer.SetKeepAlivesEnabled(false)
		_ = m.httpServer.Shutdown(ctxTimeout)
		zap.S().Named("metrics_server").Info("metrics server terminated")
	}()

	zap.S().Named("metrics_server").Infof("serving metrics: %s", m.bindAddress)
	if err := m.httpServer.Serve(m.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
