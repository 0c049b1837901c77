// Package e2e runs the gherkin features in features/ against the full webhook
// stack served in process with in-memory stores.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"oleobot/internal/bot"
	"oleobot/internal/dialogue"
	dialoguestore "oleobot/internal/dialogue/store"
	jwttoken "oleobot/internal/jwt_token"
	"oleobot/internal/ledger/service"
	ledgerstore "oleobot/internal/ledger/store"
	"oleobot/internal/notify"
	"oleobot/internal/platform/logger"
	"oleobot/internal/platform/metrics"
	httptransport "oleobot/internal/transport/http"
)

const notificationWait = 2 * time.Second

// recordingNotifier keeps every message it is asked to send, per chat.
type recordingNotifier struct {
	mu   sync.Mutex
	sent map[int64][]string
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[int64(msg.ChatID)] = append(r.sent[int64(msg.ChatID)], msg.Text)
	return nil
}

func (r *recordingNotifier) last(chatID int64) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.sent[chatID]
	if len(msgs) == 0 {
		return "", false
	}
	return msgs[len(msgs)-1], true
}

// TestContext holds one scenario's server and the last webhook exchange.
type TestContext struct {
	server     *httptest.Server
	tokens     *jwttoken.JWTService
	notifier   *recordingNotifier
	stop       context.CancelFunc
	dispatched chan struct{}

	lastReply  string
	lastStatus int
}

func NewTestContext() *TestContext {
	return &TestContext{
		tokens: jwttoken.NewJWTService("e2e-signing-key", "chat-gateway", "oleobot"),
	}
}

// Start serves a fresh stack. Every scenario starts with empty stores.
func (tc *TestContext) Start() {
	log := logger.Discard()
	m := metrics.New(prometheus.NewRegistry())

	tc.notifier = &recordingNotifier{sent: map[int64][]string{}}
	dispatcher := notify.NewDispatcher(tc.notifier, notify.WithLogger(log), notify.WithMetrics(m))
	ledger := service.New(ledgerstore.NewInMemory(), service.WithLogger(log), service.WithMetrics(m))
	engine := dialogue.New(dialoguestore.NewInMemory(), ledger, dialogue.WithLogger(log))
	handler := bot.New(ledger, engine, dispatcher, bot.WithLogger(log), bot.WithMetrics(m))

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Updates: httptransport.NewUpdatesHandler(handler, log),
		Health:  httptransport.NewHealthHandler(nil, log),
		Gateway: jwttoken.NewJWTServiceAdapter(tc.tokens),
		Logger:  log,
	})
	tc.server = httptest.NewServer(router)

	ctx, cancel := context.WithCancel(context.Background())
	tc.stop = cancel
	tc.dispatched = make(chan struct{})
	go func() {
		defer close(tc.dispatched)
		_ = dispatcher.Run(ctx)
	}()
}

func (tc *TestContext) Stop() {
	tc.server.Close()
	tc.stop()
	<-tc.dispatched
}

func (tc *TestContext) SendUpdate(ctx context.Context, userID int64, firstName, text string) error {
	token, err := tc.tokens.GenerateGatewayToken("e2e", time.Minute)
	if err != nil {
		return err
	}
	resp, err := tc.post(ctx, httptransport.UpdateRequest{
		SenderID:  userID,
		ChatID:    userID,
		FirstName: firstName,
		Text:      text,
	}, token)
	if err != nil {
		return err
	}
	if len(resp.Replies) != 1 {
		return fmt.Errorf("expected one reply to %q, got %d", text, len(resp.Replies))
	}
	tc.lastReply = resp.Replies[0].Text
	return nil
}

func (tc *TestContext) PostWithoutToken(ctx context.Context) error {
	_, err := tc.post(ctx, httptransport.UpdateRequest{SenderID: 1, ChatID: 1, Text: "/start"}, "")
	return err
}

func (tc *TestContext) post(ctx context.Context, body httptransport.UpdateRequest, token string) (*httptransport.UpdateResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.server.URL+"/v1/updates", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := tc.server.Client().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	tc.lastStatus = res.StatusCode
	var out httptransport.UpdateResponse
	if res.StatusCode == http.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode reply: %w", err)
		}
	}
	return &out, nil
}

func (tc *TestContext) LastReply() string { return tc.lastReply }

func (tc *TestContext) LastStatus() int { return tc.lastStatus }

// WaitForNotification polls until the dispatcher has delivered a message to
// userID.
func (tc *TestContext) WaitForNotification(ctx context.Context, userID int64) (string, error) {
	deadline := time.Now().Add(notificationWait)
	for {
		if msg, ok := tc.notifier.last(userID); ok {
			return msg, nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("no notification for user %d within %s", userID, notificationWait)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}
