//go:build integration

package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"oleobot/internal/notify"
	"oleobot/pkg/testutil/containers"
)

type KafkaNotifierSuite struct {
	suite.Suite
	brokers []string
}

func TestKafkaNotifierSuite(t *testing.T) {
	suite.Run(t, new(KafkaNotifierSuite))
}

func (s *KafkaNotifierSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
}

func (s *KafkaNotifierSuite) TestPublishesKeyedJSONRecords() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "oleobot.notifications.test"
	producer, err := notify.NewKafkaClient(s.brokers, topic)
	s.Require().NoError(err)
	defer producer.Close()

	s.Require().NoError(notify.EnsureTopic(ctx, producer, topic, 1, 1))
	s.Require().NoError(notify.EnsureTopic(ctx, producer, topic, 1, 1), "existing topic is not an error")

	n := notify.NewKafkaNotifier(producer, topic)
	s.Require().NoError(n.Notify(ctx, notify.Message{ChatID: 42, Text: "Boas notícias!"}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) == 0 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err(), "no record consumed before timeout")
		fetches.EachRecord(func(r *kgo.Record) {
			records = append(records, r)
		})
	}

	s.Equal("42", string(records[0].Key))
	var out notify.OutboundMessage
	s.Require().NoError(json.Unmarshal(records[0].Value, &out))
	s.Equal(int64(42), out.ChatID)
	s.Equal("Boas notícias!", out.Text)
	s.False(out.CreatedAt.IsZero())
}

func (s *KafkaNotifierSuite) TestNoBrokersIsRejected() {
	_, err := notify.NewKafkaClient(nil, "topic")
	s.Error(err)
}
