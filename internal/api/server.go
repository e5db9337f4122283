// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
)

const (
	maxBodyBytes       = 8 << 20
	shutdownTimeout    = 10 * time.Second
	defaultFlowTimeout = 10 * time.Minute
)

// Launcher runs the creation flows.
type Launcher interface {
	CreateToken(ctx context.Context, signer transaction.Signer, spec launch.TokenSpec) (*launch.TokenResult, error)
	CreateMarket(ctx context.Context, signer transaction.Signer, spec launch.MarketSpec) (*launch.MarketResult, error)
	CreatePool(ctx context.Context, signer transaction.Signer, spec launch.PoolSpec) (*launch.PoolResult, error)
}

// ServerConfig wires a Server. Every flow is signed by Signer.
type ServerConfig struct {
	Logger   *zap.Logger
	Launcher Launcher
	Receipts storage.ReceiptStore
	Signer   transaction.Signer
	// FlowTimeout bounds one creation flow. Zero means 10 minutes.
	FlowTimeout time.Duration
}

// Server exposes the flows and receipts over HTTP.
type Server struct {
	launcher Launcher
	receipts storage.ReceiptStore
	signer   transaction.Signer
	router   chi.Router
	logger   *zap.Logger

	flowTimeout time.Duration
}

func NewServer(config *ServerConfig) *Server {
	s := &Server{
		launcher: config.Launcher,
		receipts: config.Receipts,
		signer:   config.Signer,
		logger:   config.Logger.Named("api"),

		flowTimeout: config.FlowTimeout,
	}
	if s.flowTimeout <= 0 {
		s.flowTimeout = defaultFlowTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.health)
	r.Post("/tokens", s.createToken)
	r.Post("/markets", s.createMarket)
	r.Post("/pools", s.createPool)
	r.Route("/receipts", func(r chi.Router) {
		r.Get("/", s.listReceipts)
		r.Get("/{id}", s.getReceipt)
	})

	s.router = r
	return s
}

// flowContext detaches a flow from its request. A client that goes away
// does not cancel a flow whose transactions may already be on the network.
func (s *Server) flowContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), s.flowTimeout)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]string{"status": "ok"}
	if s.signer != nil && s.signer.PublicKey() != (solana.PublicKey{}) {
		body["wallet"] = s.signer.PublicKey().String()
	}
	writeJSON(w, http.StatusOK, body)
}
