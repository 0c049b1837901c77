package httptransport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"oleobot/internal/bot"
	jwttoken "oleobot/internal/jwt_token"
	"oleobot/internal/platform/logger"
	"oleobot/internal/platform/metrics"
	"oleobot/internal/transport/http/mocks"
	"oleobot/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	bot     *mocks.MockBot
	tokens  *jwttoken.JWTService
	checks  map[string]HealthCheck
	handler http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.bot = mocks.NewMockBot(s.ctrl)
	s.tokens = jwttoken.NewJWTService("test-signing-key", "chat-gateway", "oleobot")
	s.checks = map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	}

	reg := prometheus.NewRegistry()
	metrics.New(reg)
	log := logger.Discard()
	s.handler = NewRouter(RouterConfig{
		Updates: NewUpdatesHandler(s.bot, log),
		Health:  NewHealthHandler(s.checks, log),
		Gateway: jwttoken.NewJWTServiceAdapter(s.tokens),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:  log,
	})
}

func (s *RouterSuite) postUpdate(body any, authorized bool) *httptest.ResponseRecorder {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/updates", body)
	if authorized {
		token, err := s.tokens.GenerateGatewayToken("gw-test", time.Minute)
		s.Require().NoError(err)
		testutil.WithBearer(req, token)
	}
	return testutil.DoRequest(s.handler, req)
}

func (s *RouterSuite) TestUpdateIsRelayedToTheBot() {
	s.bot.EXPECT().Handle(gomock.Any(), bot.Update{SenderID: 10, ChatID: 10, FirstName: "Bia", Text: "/placar"}).
		Return(bot.Reply{ChatID: 10, Text: "📊 Placar"})

	rec := s.postUpdate(UpdateRequest{SenderID: 10, ChatID: 10, FirstName: "Bia", Text: "/placar"}, true)

	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
	resp := testutil.UnmarshalResponse[UpdateResponse](s.T(), rec)
	s.Equal([]ReplyResponse{{ChatID: 10, Text: "📊 Placar"}}, resp.Replies)
}

func (s *RouterSuite) TestUpdateRequiresGatewayToken() {
	rec := s.postUpdate(UpdateRequest{SenderID: 10, ChatID: 10, Text: "oi"}, false)
	testutil.AssertStatusAndError(s.T(), rec, http.StatusUnauthorized, "unauthorized")
}

func (s *RouterSuite) TestMalformedUpdatesAreRejected() {
	for name, body := range map[string]any{
		"missing sender": UpdateRequest{ChatID: 10, Text: "oi"},
		"blank text":     UpdateRequest{SenderID: 10, ChatID: 10, Text: "  "},
		"not an object":  []int{1, 2},
	} {
		s.Run(name, func() {
			rec := s.postUpdate(body, true)
			testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, "bad_request")
		})
	}
}

func (s *RouterSuite) TestHealth() {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok","checks":{"postgres":"ok"}}`, rec.Body.String())

	s.checks["redis"] = func(context.Context) error { return errors.New("connection refused") }
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.JSONEq(`{"status":"degraded","checks":{"postgres":"ok","redis":"unavailable"}}`, rec.Body.String())
}

func (s *RouterSuite) TestMetricsAreExposed() {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "oleobot_donations_validated_total")
}
