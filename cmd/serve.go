package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/triage-cli/internal/config"
	"github.com/sells-group/triage-cli/internal/model"
	"github.com/sells-group/triage-cli/internal/monitoring"
)

var servePort int

const maxBodyBytes = 1 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the triage HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := newEngine(cfg.Triage)
		if err != nil {
			return err
		}

		collector := monitoring.NewCollector()
		checker := monitoring.NewChecker(collector, monitoring.NewAlerter(cfg.Monitoring), cfg.Monitoring)
		go checker.Run(ctx)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           buildRouter(env, collector, cfg.Server),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type triageRequest struct {
	RequestID    string `json:"request_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Urgency      string `json:"urgency"`
	Message      string `json:"message"`
}

type classifyRequest struct {
	Message string `json:"message"`
}

type routeRequest struct {
	Classification model.ClassificationResult `json:"classification"`
	Urgency        string                     `json:"urgency"`
}

// buildRouter wires the HTTP API. collector may be nil.
func buildRouter(env *engine, collector *monitoring.Collector, sc config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	if len(sc.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: sc.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		if sc.RateLimit > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(sc.RateLimit), sc.RateBurst)))
		}

		r.Post("/triage", func(w http.ResponseWriter, r *http.Request) {
			var body triageRequest
			if !decodeBody(w, r, &body) {
				return
			}

			req, err := env.Assembler.NewIntake(body.RequestID, body.EmployeeName, body.Department, parseUrgency(body.Urgency), body.Message)
			if err != nil {
				writeValidationError(w, err)
				return
			}

			ticket := env.Assembler.Triage(req)
			if collector != nil {
				collector.Record(ticket)
			}
			writeJSON(w, http.StatusCreated, ticket)
		})

		r.Post("/classify", func(w http.ResponseWriter, r *http.Request) {
			var body classifyRequest
			if !decodeBody(w, r, &body) {
				return
			}
			if strings.TrimSpace(body.Message) == "" {
				writeError(w, http.StatusBadRequest, "message is required")
				return
			}
			writeJSON(w, http.StatusOK, env.Classifier.Classify(body.Message))
		})

		r.Post("/route", func(w http.ResponseWriter, r *http.Request) {
			var body routeRequest
			if !decodeBody(w, r, &body) {
				return
			}

			c := body.Classification
			cls, err := model.NewClassificationResult(c.Category, c.Confidence, c.Rationale, c.ExtractedEntities)
			if err != nil {
				writeValidationError(w, err)
				return
			}
			urgency := parseUrgency(body.Urgency)
			if !urgency.IsValid() {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid urgency %q", body.Urgency))
				return
			}

			writeJSON(w, http.StatusOK, env.Router.Route(cls, urgency))
		})

		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			if collector == nil {
				writeError(w, http.StatusServiceUnavailable, "stats not enabled")
				return
			}
			writeJSON(w, http.StatusOK, collector.Snapshot())
		})
	})

	return r
}

// rateLimit rejects requests once the shared limiter is exhausted.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(1))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, err error) {
	if model.IsValidationError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	zap.L().Error("unexpected request error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}
