package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"movimenti/internal/blob"
	"movimenti/internal/services"
	"movimenti/internal/store"
)

type Server struct {
	http.Server
	txns       *services.TransactionService
	categories store.CategoryStore
	blobs      blob.Store
}

// NewServer configures routes and returns a ready-to-run http.Server.
func NewServer(addr string, txns *services.TransactionService, categories store.CategoryStore, blobs blob.Store) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		txns:       txns,
		categories: categories,
		blobs:      blobs,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /transactions", s.withLogging(s.handleListTransactions))
	mux.HandleFunc("POST /transactions", s.withLogging(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions/{id}", s.withLogging(s.handleGetTransaction))
	mux.HandleFunc("PUT /transactions/{id}", s.withLogging(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.withLogging(s.handleDeleteTransaction))

	mux.HandleFunc("GET /totals", s.withLogging(s.handleTotals))

	mux.HandleFunc("GET /categories", s.withLogging(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.withLogging(s.handleCreateCategory))
	mux.HandleFunc("GET /categories/{id}", s.withLogging(s.handleGetCategory))
	mux.HandleFunc("PUT /categories/{id}", s.withLogging(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.withLogging(s.handleDeleteCategory))

	mux.HandleFunc("POST /upload", s.withLogging(s.handleUpload))
	mux.HandleFunc("DELETE /upload/{fileName}", s.withLogging(s.handleDeleteUpload))

	return s
}

// withLogging adds security headers and request logging to responses
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		// Generate request ID for tracing
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Create a custom response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
