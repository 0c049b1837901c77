package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"oleobot/internal/notify"
	"oleobot/internal/notify/mocks"
	"oleobot/internal/platform/logger"
	"oleobot/internal/platform/metrics"
	"oleobot/pkg/platform/circuit"
)

type DispatcherSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	notifier *mocks.MockNotifier
	metrics  *metrics.Metrics
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
}

func (s *DispatcherSuite) newDispatcher(opts ...notify.DispatcherOption) *notify.Dispatcher {
	base := []notify.DispatcherOption{
		notify.WithLogger(logger.Discard()),
		notify.WithMetrics(s.metrics),
	}
	return notify.NewDispatcher(s.notifier, append(base, opts...)...)
}

func (s *DispatcherSuite) outcome(name string) float64 {
	return testutil.ToFloat64(s.metrics.Notifications.WithLabelValues(name))
}

// run starts d and returns a stop function that cancels it and waits. stop
// may be called more than once.
func (s *DispatcherSuite) run(d *notify.Dispatcher) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.NoError(d.Run(ctx))
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.Fail("dispatcher did not stop")
		}
	}
}

func (s *DispatcherSuite) TestDeliversQueuedMessages() {
	var wg sync.WaitGroup
	wg.Add(2)
	s.notifier.EXPECT().Notify(gomock.Any(), notify.Message{ChatID: 10, Text: "olá"}).
		DoAndReturn(func(ctx context.Context, _ notify.Message) error {
			defer wg.Done()
			_, hasDeadline := ctx.Deadline()
			s.True(hasDeadline, "each send carries its own timeout")
			return nil
		}).Times(2)

	d := s.newDispatcher(notify.WithWorkers(2), notify.WithSendTimeout(time.Second))
	stop := s.run(d)
	defer stop()

	s.True(d.Enqueue(context.Background(), notify.Message{ChatID: 10, Text: "olá"}))
	s.True(d.Enqueue(context.Background(), notify.Message{ChatID: 10, Text: "olá"}))
	wg.Wait()
	stop()

	s.Equal(2.0, s.outcome(notify.OutcomeSent))
}

func (s *DispatcherSuite) TestFullQueueDropsWithoutBlocking() {
	d := s.newDispatcher(notify.WithQueueSize(1))

	s.True(d.Enqueue(context.Background(), notify.Message{ChatID: 1, Text: "a"}))
	s.False(d.Enqueue(context.Background(), notify.Message{ChatID: 2, Text: "b"}))
	s.Equal(1.0, s.outcome(notify.OutcomeDropped))
}

func (s *DispatcherSuite) TestFailuresAreCountedAndSwallowed() {
	var wg sync.WaitGroup
	wg.Add(2)
	gomock.InOrder(
		s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, notify.Message) error {
				defer wg.Done()
				return errors.New("broker unavailable")
			}),
		s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, notify.Message) error {
				defer wg.Done()
				return nil
			}),
	)

	d := s.newDispatcher(notify.WithWorkers(1))
	stop := s.run(d)
	defer stop()

	d.Enqueue(context.Background(), notify.Message{ChatID: 1, Text: "a"})
	d.Enqueue(context.Background(), notify.Message{ChatID: 2, Text: "b"})
	wg.Wait()
	stop()

	s.Equal(1.0, s.outcome(notify.OutcomeFailed))
	s.Equal(1.0, s.outcome(notify.OutcomeSent))
}

func (s *DispatcherSuite) TestOpenBreakerSkipsSends() {
	breaker := circuit.New("notifier", circuit.WithFailureThreshold(1), circuit.WithCooldown(time.Hour))
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable")).Times(1)

	d := s.newDispatcher(notify.WithWorkers(1), notify.WithBreaker(breaker))
	d.Enqueue(context.Background(), notify.Message{ChatID: 1, Text: "a"})
	d.Enqueue(context.Background(), notify.Message{ChatID: 2, Text: "b"})
	d.Enqueue(context.Background(), notify.Message{ChatID: 3, Text: "c"})

	// A cancelled context makes Run flush the queue on the calling goroutine.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.NoError(d.Run(ctx))

	s.True(breaker.IsOpen())
	s.Equal(1.0, s.outcome(notify.OutcomeFailed))
	s.Equal(2.0, s.outcome(notify.OutcomeSkipped))
}

func (s *DispatcherSuite) TestShutdownFlushesQueue() {
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	d := s.newDispatcher()
	for i := 1; i <= 3; i++ {
		s.True(d.Enqueue(context.Background(), notify.Message{Text: "x"}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = d.Run(ctx)

	s.Equal(3.0, s.outcome(notify.OutcomeSent))
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := notify.NewLogNotifier(logger.Discard())
	if err := n.Notify(context.Background(), notify.Message{ChatID: 1, Text: "oi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func (s *DispatcherSuite) TestStopCanBeCalledAgain() {
	stop := s.run(s.newDispatcher())
	stop()

	start := time.Now()
	stop()
	s.Less(time.Since(start), time.Second)
}
