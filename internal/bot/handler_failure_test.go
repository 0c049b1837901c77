package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"oleobot/internal/bot/mocks"
	"oleobot/internal/dialogue"
	"oleobot/internal/ledger/models"
	"oleobot/internal/ledger/service"
	"oleobot/internal/notify"
	"oleobot/internal/platform/logger"
	dErrors "oleobot/pkg/domain-errors"
)

type HandlerFailureSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	ledger        *mocks.MockLedger
	dialogue      *mocks.MockDialogue
	notifications *mocks.MockNotifications
	handler       *Handler
}

func TestHandlerFailureSuite(t *testing.T) {
	suite.Run(t, new(HandlerFailureSuite))
}

func (s *HandlerFailureSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ledger = mocks.NewMockLedger(s.ctrl)
	s.dialogue = mocks.NewMockDialogue(s.ctrl)
	s.notifications = mocks.NewMockNotifications(s.ctrl)
	s.handler = New(s.ledger, s.dialogue, s.notifications, WithLogger(logger.Discard()))
}

func (s *HandlerFailureSuite) handle(text string) string {
	return s.handler.Handle(context.Background(), Update{SenderID: adminID, ChatID: adminID, FirstName: "Ana", Text: text}).Text
}

func (s *HandlerFailureSuite) TestInternalErrorsBecomeRetryLater() {
	unavailable := dErrors.Wrap(errors.New("connection refused"), dErrors.CodeInternal, "failed to load collection point")

	s.Run("greeting", func() {
		s.ledger.EXPECT().FindCollectionPointByAdmin(gomock.Any(), adminID).Return(nil, unavailable)
		s.Equal(dialogue.MsgRetryLater, s.handle("/start"))
	})

	s.Run("flow step", func() {
		s.dialogue.EXPECT().Continue(gomock.Any(), dialogue.Sender{ID: adminID, FirstName: "Ana"}, "Escola").
			Return("", true, unavailable)
		s.Equal(dialogue.MsgRetryLater, s.handle("Escola"))
	})

	s.Run("scoreboard timeout", func() {
		s.ledger.EXPECT().Scoreboard(gomock.Any(), adminID).
			Return(nil, dErrors.New(dErrors.CodeTimeout, "operation timed out"))
		s.Equal(dialogue.MsgRetryLater, s.handle("/placar"))
	})
}

func (s *HandlerFailureSuite) TestValidateFailureDoesNotNotify() {
	s.ledger.EXPECT().FindCollectionPointByAdmin(gomock.Any(), adminID).Return(&models.CollectionPoint{}, nil)
	s.ledger.EXPECT().ValidateDonation(gomock.Any(), "OLEO-AB12", adminID).
		Return(nil, dErrors.New(dErrors.CodeInternal, "failed to validate donation"))
	s.notifications.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Times(0)

	s.Equal(dialogue.MsgRetryLater, s.handle("/validar oleo-ab12"))
}

func (s *HandlerFailureSuite) TestDroppedNotificationStillConfirms() {
	pointID := uuid.New()
	s.ledger.EXPECT().FindCollectionPointByAdmin(gomock.Any(), adminID).Return(&models.CollectionPoint{ID: pointID}, nil)
	s.ledger.EXPECT().ValidateDonation(gomock.Any(), "OLEO-AB12", adminID).Return(&service.ValidationResult{
		Donation:        &models.Donation{DeliveryCode: "OLEO-AB12", Liters: 2},
		Donor:           &models.Donor{ExternalID: donorID, DisplayName: "Bia", CollectionPointID: pointID},
		CollectionPoint: &models.CollectionPoint{ID: pointID, InstitutionName: "Escola", ValidatedLiters: 7.25},
	}, nil)
	s.notifications.EXPECT().Enqueue(gomock.Any(), notify.Message{
		ChatID: donorID,
		Text:   "Boas notícias! Sua doação de 2L foi validada na 'Escola'. Obrigado!",
	}).Return(false)

	reply := s.handle("/validar OLEO-AB12")
	s.Contains(reply, "Doação de 2L de Bia")
	s.Contains(reply, "7.25 litros")
}

func (s *HandlerFailureSuite) TestEachUpdateIsBounded() {
	s.handler = New(s.ledger, s.dialogue, s.notifications,
		WithLogger(logger.Discard()),
		WithTimeout(50*time.Millisecond),
	)
	s.dialogue.EXPECT().Cancel(gomock.Any(), adminID).
		DoAndReturn(func(ctx context.Context, _ models.ExternalID) (string, error) {
			deadline, ok := ctx.Deadline()
			s.Require().True(ok)
			s.WithinDuration(time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
			return dialogue.MsgCancelled, nil
		})

	s.Equal(dialogue.MsgCancelled, s.handle("/cancelar"))
}

func (s *HandlerFailureSuite) TestRateLimitedSenderIsNotDispatched() {
	limiter := mocks.NewMockRateLimiter(s.ctrl)
	handler := New(s.ledger, s.dialogue, s.notifications,
		WithLogger(logger.Discard()),
		WithRateLimiter(limiter),
	)

	gomock.InOrder(
		limiter.EXPECT().AllowSender(gomock.Any(), adminID).Return(true),
		s.ledger.EXPECT().Scoreboard(gomock.Any(), adminID).
			Return(&models.CollectionPoint{InstitutionName: "Escola", ValidatedLiters: 2}, nil),
		limiter.EXPECT().AllowSender(gomock.Any(), adminID).Return(false),
	)

	update := Update{SenderID: adminID, ChatID: adminID, FirstName: "Ana", Text: "/placar"}
	s.Contains(handler.Handle(context.Background(), update).Text, "Escola")

	reply := handler.Handle(context.Background(), update)
	s.Equal(msgSlowDown, reply.Text)
	s.Equal(adminID, reply.ChatID)
}
