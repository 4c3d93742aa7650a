package server

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"nexus/internal/domain"
	"nexus/internal/services"
)

// inquiryResponse is the wire shape of an inquiry
type inquiryResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Status  string `json:"status"`
}

func toInquiryResponse(inq *domain.Inquiry) inquiryResponse {
	return inquiryResponse{
		ID:      inq.ID,
		Name:    inq.Name,
		Email:   inq.Email,
		Message: inq.Message,
		Date:    inq.Date(),
		Status:  string(inq.Status),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	encode(r.Context(), w, http.StatusOK, s.svc.Health.Check(r.Context()))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	res, err := s.svc.Auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	encode(r.Context(), w, http.StatusOK, loginResponse{Success: true, User: res.User, Token: res.Token})
}

func (s *Server) createInquiry(w http.ResponseWriter, r *http.Request) {
	var body services.SubmitInquiryInput
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	inquiry, err := s.svc.Inquiries.Submit(r.Context(), body)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, toInquiryResponse(inquiry))
}

func (s *Server) listInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := s.svc.Inquiries.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	out := make([]inquiryResponse, len(inquiries))
	for i := range inquiries {
		out[i] = toInquiryResponse(&inquiries[i])
	}
	ok(w, r, out)
}

func (s *Server) deleteInquiry(w http.ResponseWriter, r *http.Request) {
	id := s.mux.Vars(r)["id"]
	if err := s.svc.Inquiries.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	log.Printf("[API] Inquiry id=%s deleted by %s", id, actor(r))
	ok(w, r, nil)
}

func (s *Server) updateInquiryStatus(w http.ResponseWriter, r *http.Request) {
	id := s.mux.Vars(r)["id"]
	var body statusRequest
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	if err := s.svc.Inquiries.UpdateStatus(r.Context(), id, body.Status); err != nil {
		fail(w, r, err)
		return
	}
	log.Printf("[API] Inquiry id=%s status set to %q by %s", id, body.Status, actor(r))
	ok(w, r, nil)
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.svc.Config.Get(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, cfg)
}

func (s *Server) saveConfig(w http.ResponseWriter, r *http.Request) {
	var body services.UpdateConfigInput
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	if err := s.svc.Config.Update(r.Context(), body); err != nil {
		fail(w, r, err)
		return
	}
	log.Printf("[API] Notification config changed by %s", actor(r))
	ok(w, r, nil)
}

func (s *Server) sendEmail(w http.ResponseWriter, r *http.Request) {
	var body services.SendEmailInput
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	if _, err := s.svc.Email.Dispatch(r.Context(), body); err != nil {
		fail(w, r, err)
		return
	}
	log.Printf("[API] Direct email to %s sent by %s", body.RecipientEmail, actor(r))
	ok(w, r, nil)
}
