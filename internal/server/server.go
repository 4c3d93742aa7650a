package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"

	"nexus/internal/domain"
	"nexus/internal/services"
	apperrors "nexus/pkg/errors"
)

// Services are the backends the HTTP layer exposes
type Services struct {
	Health    *services.HealthService
	Auth      *services.AuthService
	Inquiries *services.InquiryService
	Config    *services.ConfigService
	Email     *services.EmailService
}

// Server maps the fixed route table onto the services
type Server struct {
	svc          Services
	authRequired bool
	mux          goahttp.Muxer
}

// New creates the HTTP server. With authRequired, console routes demand a
// bearer token issued by the login endpoint.
func New(svc Services, authRequired bool) *Server {
	return &Server{svc: svc, authRequired: authRequired}
}

// Handler returns the routed handler with request id, request context and
// panic recovery applied. /metrics is served by Prometheus.
func (s *Server) Handler() http.Handler {
	mux := goahttp.NewMuxer()
	s.Mount(mux)

	var handler http.Handler = mux
	handler = middleware.PopulateRequestContext()(handler)
	handler = middleware.RequestID()(handler)
	handler = chimiddleware.Recoverer(handler)

	metricsHandler := promhttp.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			metricsHandler.ServeHTTP(w, r)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

// Mount registers every route on mux
func (s *Server) Mount(mux goahttp.Muxer) {
	s.mux = mux
	anyUser := s.guard(domain.RoleViewer, domain.RoleAdmin)
	adminOnly := s.guard(domain.RoleAdmin)

	mux.Handle(http.MethodGet, "/health", s.health)
	mux.Handle(http.MethodPost, "/api/auth/login", s.login)
	mux.Handle(http.MethodPost, "/api/inquiries", s.createInquiry)
	mux.Handle(http.MethodGet, "/api/inquiries", anyUser(s.listInquiries))
	mux.Handle(http.MethodDelete, "/api/inquiries/{id}", adminOnly(s.deleteInquiry))
	mux.Handle(http.MethodPatch, "/api/inquiries/{id}/status", adminOnly(s.updateInquiryStatus))
	mux.Handle(http.MethodGet, "/api/webhook-config", anyUser(s.getConfig))
	mux.Handle(http.MethodPost, "/api/webhook-config", adminOnly(s.saveConfig))
	mux.Handle(http.MethodPost, "/api/send-email", adminOnly(s.sendEmail))
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// decode reads the JSON body into v. An empty or malformed body is a
// validation error.
func decode(r *http.Request, v any) error {
	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("request body is required")
		}
		return apperrors.Wrap(apperrors.ErrCodeValidation, "invalid request body", err)
	}
	return nil
}

func encode(ctx context.Context, w http.ResponseWriter, status int, body any) {
	enc := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	if err := enc.Encode(body); err != nil {
		log.WithError(err).Error("[API] Failed to encode response")
	}
}

func ok(w http.ResponseWriter, r *http.Request, data any) {
	encode(r.Context(), w, http.StatusOK, successResponse{Success: true, Data: data})
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).Errorf("[API] %s %s failed", r.Method, r.URL.Path)
	} else {
		log.Debugf("[API] %s %s rejected: %v", r.Method, r.URL.Path, err)
	}
	encode(r.Context(), w, status, errorResponse{Error: apperrors.PublicMessage(err)})
}
