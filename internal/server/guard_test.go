package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus/internal/config"
	"nexus/internal/domain"
	"nexus/internal/services"
	"nexus/internal/util"
)

func TestGuardCarriesUserToHandler(t *testing.T) {
	tokens := util.NewTokenManager(testSecret, time.Hour)
	s := New(Services{Auth: services.NewAuthService(config.AuthConfig{}, tokens)}, true)

	token, err := tokens.GenerateToken(domain.AdminUser("ops@nexus.com"))
	require.NoError(t, err)

	var seen *domain.User
	var who string
	h := s.guard(domain.RoleAdmin)(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		who = actor(r)
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/inquiries/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "ops@nexus.com", seen.Email)
	assert.True(t, seen.IsAdmin())
	assert.Equal(t, "ops@nexus.com (admin)", who)
}

func TestOpenRoutesHaveNoUser(t *testing.T) {
	s := New(Services{}, false)

	var found bool
	var who string
	h := s.guard(domain.RoleAdmin)(func(w http.ResponseWriter, r *http.Request) {
		_, found = UserFromContext(r.Context())
		who = actor(r)
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/inquiries/x", nil))

	assert.False(t, found)
	assert.Equal(t, "anonymous", who)
}
