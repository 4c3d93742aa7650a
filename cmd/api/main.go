package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"nexus/internal/config"
	"nexus/internal/database"
	"nexus/internal/domain"
	"nexus/internal/metrics"
	"nexus/internal/server"
	"nexus/internal/services"
	"nexus/internal/util"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.App.Debug {
		log.SetLevel(log.DebugLevel)
	}

	log.Printf("[API] Starting %s v%s", cfg.App.Name, cfg.App.Version)
	log.Printf("[API] Environment: debug=%v, port=%s, host=%s, auth_required=%v", cfg.App.Debug, cfg.App.Port, cfg.App.Host, cfg.Auth.Required)
	if !cfg.Auth.Admin.Configured() {
		log.Warn("[API] ADMIN_EMAIL/ADMIN_PASSWORD not set, admin login is disabled")
	}

	// Primary store, or the in-process fallback alone when it is unreachable
	fallback := database.NewMemoryStore()
	if cfg.Database.SeedDemo {
		fallback.SeedDemo()
	}
	var primary database.Store
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.WithError(err).Warn("[STORE] Primary store unavailable, using in-process fallback (data is not durable)")
	} else {
		primary = database.NewGormStore(db)
		defer closeDB(db)
	}
	gateway := database.NewGateway(primary, fallback, domain.NotificationConfig{
		Email:    cfg.Notify.DefaultEmail,
		Domain:   cfg.Notify.DefaultDomain,
		IsActive: true,
	})

	// Create service instances
	log.Println("[API] Initializing services...")
	tokens := util.NewTokenManager(cfg.Auth.SecretKey, time.Duration(cfg.Auth.TokenExpiryMinutes)*time.Minute)
	emailSvc := services.NewEmailService(services.NewTransport(&cfg.Email))
	srv := server.New(server.Services{
		Health: services.NewHealthService(cfg.App.Name, gateway, emailSvc),
		Auth:   services.NewAuthService(cfg.Auth, tokens),
		Inquiries: services.NewInquiryService(gateway, emailSvc, services.InquiryOptions{
			StrictNotFound: cfg.Database.StrictNotFound,
			StrictStatus:   cfg.Database.StrictStatus,
		}),
		Config: services.NewConfigService(gateway),
		Email:  emailSvc,
	}, cfg.Auth.Required)

	// Setup middleware chain: Security -> CORS -> Logging -> Prometheus -> Handler
	handler := setupSecurityHeaders(setupCORS(requestLogging(metrics.PrometheusMiddleware(srv.Handler())), cfg), cfg)

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     stdLogger(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("[API] Server listening on %s (store=%s, mail=%s)", addr, gateway.Mode(), emailSvc.Mode())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Server failed to start: %v", err)
	case sig := <-shutdown:
		log.Printf("[API] Received signal: %v. Starting graceful shutdown...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("[API] Error during graceful shutdown: %v", err)
		if err == context.DeadlineExceeded {
			log.Println("[API] Shutdown timeout exceeded, forcing close...")
			httpServer.Close()
		}
	}

	log.Println("[API] Server shutdown complete")
}

func closeDB(db *gorm.DB) {
	log.Println("[STORE] Closing database connections...")
	if err := database.Close(db); err != nil {
		log.Printf("[STORE] Error closing database: %v", err)
	}
}

// setupSecurityHeaders adds security headers to responses
func setupSecurityHeaders(handler http.Handler, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// HSTS (only in production with HTTPS)
		if !cfg.App.Debug && r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		handler.ServeHTTP(w, r)
	})
}

// setupCORS configures CORS based on environment
func setupCORS(handler http.Handler, cfg *config.Config) http.Handler {
	allowAll := len(cfg.CORS.AllowedOrigins) == 0 || cfg.CORS.AllowedOrigins[0] == "*"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if !allowAll && origin != "" {
			allowed := false
			for _, allowedOrigin := range cfg.CORS.AllowedOrigins {
				if origin == allowedOrigin {
					allowed = true
					break
				}
			}
			if !allowed {
				w.WriteHeader(http.StatusForbidden)
				return
			}
		}

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else if allowAll {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.CORS.AllowedMethods, ", "))
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.CORS.AllowedHeaders, ", "))
		w.Header().Set("Access-Control-Expose-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", cfg.CORS.MaxAge))

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLogging logs all incoming requests and their responses
func requestLogging(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip logging for health checks and scrapes to reduce noise
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			handler.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler.ServeHTTP(wrapped, r)

		entry := log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapped.statusCode,
			"duration": time.Since(start),
			"remote":   r.RemoteAddr,
		})
		if wrapped.statusCode >= http.StatusInternalServerError {
			entry.Warn("[RESPONSE]")
			return
		}
		entry.Info("[RESPONSE]")
	})
}

// stdLogger routes net/http's internal errors through logrus
func stdLogger() *stdlog.Logger {
	return stdlog.New(log.StandardLogger().WriterLevel(log.ErrorLevel), "[HTTP] ", 0)
}
