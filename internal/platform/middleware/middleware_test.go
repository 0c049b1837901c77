package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oleobot/internal/platform/logger"
)

type stubValidator struct {
	claims *GatewayClaims
	err    error
	got    string
}

func (s *stubValidator) ValidateToken(token string) (*GatewayClaims, error) {
	s.got = token
	return s.claims, s.err
}

func echoGateway(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetGatewayID(r.Context())))
}

func TestRequireGateway(t *testing.T) {
	t.Run("valid token exposes the gateway", func(t *testing.T) {
		v := &stubValidator{claims: &GatewayClaims{GatewayID: "gw-1"}}
		h := RequireGateway(v, logger.Discard())(http.HandlerFunc(echoGateway))

		req := httptest.NewRequest(http.MethodPost, "/v1/updates", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "gw-1", rec.Body.String())
		assert.Equal(t, "abc", v.got)
	})

	t.Run("missing header", func(t *testing.T) {
		h := RequireGateway(&stubValidator{}, logger.Discard())(http.HandlerFunc(echoGateway))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/updates", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`, rec.Body.String())
	})

	t.Run("rejected token", func(t *testing.T) {
		h := RequireGateway(&stubValidator{err: errors.New("bad")}, logger.Discard())(http.HandlerFunc(echoGateway))
		req := httptest.NewRequest(http.MethodPost, "/v1/updates", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "from-gateway")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "from-gateway", seen)
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for contentType, want := range map[string]int{
		"application/json":                http.StatusNoContent,
		"application/json; charset=utf-8": http.StatusNoContent,
		"text/plain":                      http.StatusUnsupportedMediaType,
		"":                                http.StatusUnsupportedMediaType,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, contentType)
	}
}
