package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"oleobot/internal/ledger/models"
	"oleobot/internal/ledger/store"
	"oleobot/internal/platform/logger"
	"oleobot/internal/platform/metrics"
	dErrors "oleobot/pkg/domain-errors"
	"oleobot/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemory
	metrics *metrics.Metrics
	service *Service
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC)
	s.service = New(s.store,
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return s.now }),
	)
}

// sequence returns a generator that yields codes in order and then fails.
func sequence(codes ...string) models.CodeGenerator {
	i := 0
	return func() (string, error) {
		if i >= len(codes) {
			return "", errors.New("sequence exhausted")
		}
		code := codes[i]
		i++
		return code, nil
	}
}

func (s *ServiceSuite) registerPoint(code string, admin models.ExternalID) *models.CollectionPoint {
	point, err := s.service.CreateCollectionPoint(s.ctx, code, "Escola Paulo Freire", "Ana", admin)
	s.Require().NoError(err)
	return point
}

func (s *ServiceSuite) joinPoint(code string, user models.ExternalID) *models.Donor {
	point, err := s.service.FindCollectionPointByCode(s.ctx, code)
	s.Require().NoError(err)
	donor, err := s.service.CreateDonor(s.ctx, user, "Bia", point.ID)
	s.Require().NoError(err)
	return donor
}

func (s *ServiceSuite) donate(donor *models.Donor, liters float64) *models.Donation {
	donation, err := s.service.CreateDonation(s.ctx, donor.ID, liters)
	s.Require().NoError(err)
	return donation
}

func (s *ServiceSuite) TestCreateCollectionPoint() {
	s.Run("stores the campaign code uppercased", func() {
		point := s.registerPoint("  escola25 ", 1)
		s.Equal("ESCOLA25", point.CampaignCode)
		s.Equal(s.now, point.CreatedAt)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.CollectionPointsRegistered))
	})

	s.Run("rejects a colliding code in any case and creates nothing", func() {
		_, err := s.service.CreateCollectionPoint(s.ctx, "Escola25", "Outra", "Caio", 2)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateCode))

		_, err = s.service.FindCollectionPointByAdmin(s.ctx, 2)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("rejects a second point for the same admin", func() {
		_, err := s.service.CreateCollectionPoint(s.ctx, "OUTRA", "Outra", "Ana", 1)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateAdmin))
	})

	s.Run("rejects blank input before touching the store", func() {
		_, err := s.service.CreateCollectionPoint(s.ctx, "   ", "Escola", "Ana", 3)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestFindCollectionPointByCodeIsCaseInsensitive() {
	created := s.registerPoint("ESCOLA25", 1)

	found, err := s.service.FindCollectionPointByCode(s.ctx, " escola25")
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)

	byID, err := s.service.FindCollectionPointByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, byID.ID)

	_, err = s.service.FindCollectionPointByCode(s.ctx, "NADA")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCreateDonor() {
	point := s.registerPoint("ESCOLA25", 1)

	donor, err := s.service.CreateDonor(s.ctx, 10, " Bia ", point.ID)
	s.Require().NoError(err)
	s.Equal("Bia", donor.DisplayName)

	s.Run("rejects re-association", func() {
		other := s.registerPoint("OUTRA", 2)
		_, err := s.service.CreateDonor(s.ctx, 10, "Bia", other.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateDonor))

		found, err := s.service.FindDonorByExternalID(s.ctx, 10)
		s.Require().NoError(err)
		s.True(found.BelongsTo(point.ID))
	})

	s.Run("rejects an unknown collection point", func() {
		_, err := s.service.CreateDonor(s.ctx, 11, "Caio", uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestCreateDonation() {
	s.registerPoint("ESCOLA25", 1)
	donor := s.joinPoint("ESCOLA25", 10)

	s.Run("generated codes have the delivery code shape", func() {
		donation := s.donate(donor, 3.5)
		s.True(models.IsDeliveryCode(donation.DeliveryCode), donation.DeliveryCode)
		s.Equal(models.DonationStatusPending, donation.Status)
		s.Nil(donation.ValidatedAt)
	})

	s.Run("a collision draws another code", func() {
		s.service.newCode = sequence("OLEO-AAAA", "OLEO-AAAA", "OLEO-BBBB")
		first := s.donate(donor, 1)
		second := s.donate(donor, 2)
		s.Equal("OLEO-AAAA", first.DeliveryCode)
		s.Equal("OLEO-BBBB", second.DeliveryCode)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.DeliveryCodeCollisions))
	})

	s.Run("gives up after the configured number of attempts", func() {
		s.service.newCode = func() (string, error) { return "OLEO-AAAA", nil }
		s.service.maxCodeAttempts = 3
		_, err := s.service.CreateDonation(s.ctx, donor.ID, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("rejects non-positive liters", func() {
		_, err := s.service.CreateDonation(s.ctx, donor.ID, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = s.service.CreateDonation(s.ctx, donor.ID, -1)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestValidateDonation() {
	point := s.registerPoint("ESCOLA25", 1)
	donor := s.joinPoint("ESCOLA25", 10)
	s.service.newCode = sequence("OLEO-AB12", "OLEO-CD34")
	donation := s.donate(donor, 3.5)

	s.Run("non admins are forbidden", func() {
		_, err := s.service.ValidateDonation(s.ctx, donation.DeliveryCode, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown codes are not found", func() {
		_, err := s.service.ValidateDonation(s.ctx, "OLEO-ZZZZ", 1)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("another campaign's admin cannot validate", func() {
		s.registerPoint("OUTRA", 2)
		_, err := s.service.ValidateDonation(s.ctx, donation.DeliveryCode, 2)
		s.True(dErrors.HasCode(err, dErrors.CodeWrongCampaign))

		unchanged, err := s.service.FindDonationByCode(s.ctx, donation.DeliveryCode)
		s.Require().NoError(err)
		s.Equal(models.DonationStatusPending, unchanged.Status)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.ValidationsRejected.WithLabelValues(string(dErrors.CodeWrongCampaign))))
	})

	s.Run("first validation flips status and credits once", func() {
		result, err := s.service.ValidateDonation(s.ctx, "oleo-ab12", 1)
		s.Require().NoError(err)
		s.Equal(models.DonationStatusValidated, result.Donation.Status)
		s.Require().NotNil(result.Donation.ValidatedAt)
		s.Equal(s.now, *result.Donation.ValidatedAt)
		s.Equal(donor.ID, result.Donor.ID)
		s.Equal(point.ID, result.CollectionPoint.ID)
		s.Equal(3.5, result.CollectionPoint.ValidatedLiters)
	})

	s.Run("second validation is rejected and leaves the total", func() {
		_, err := s.service.ValidateDonation(s.ctx, "OLEO-AB12", 1)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyValidated))

		total, err := s.service.FindCollectionPointByID(s.ctx, point.ID)
		s.Require().NoError(err)
		s.Equal(3.5, total.ValidatedLiters)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.DonationsValidated))
		s.Equal(3.5, testutil.ToFloat64(s.metrics.LitersValidated))
	})
}

// TestValidateDonationRollsBackOnCreditFailure verifies the status flip is
// undone when crediting the collection point fails.
func (s *ServiceSuite) TestValidateDonationRollsBackOnCreditFailure() {
	s.registerPoint("ESCOLA25", 1)
	donor := s.joinPoint("ESCOLA25", 10)
	donation := s.donate(donor, 2)

	failing := &failingCreditStore{InMemory: s.store}
	svc := New(failing, WithLogger(logger.Discard()))

	_, err := svc.ValidateDonation(s.ctx, donation.DeliveryCode, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	after, err := s.service.FindDonationByCode(s.ctx, donation.DeliveryCode)
	s.Require().NoError(err)
	s.Equal(models.DonationStatusPending, after.Status)
}

func (s *ServiceSuite) TestScoreboard() {
	point := s.registerPoint("ESCOLA25", 1)
	donor := s.joinPoint("ESCOLA25", 10)
	for _, liters := range []float64{2.0, 3.5} {
		donation := s.donate(donor, liters)
		_, err := s.service.ValidateDonation(s.ctx, donation.DeliveryCode, 1)
		s.Require().NoError(err)
	}

	s.Run("donor sees their point", func() {
		board, err := s.service.Scoreboard(s.ctx, 10)
		s.Require().NoError(err)
		s.Equal(point.ID, board.ID)
		s.Equal("5.50", fmt.Sprintf("%.2f", board.ValidatedLiters))
	})

	s.Run("admin sees their point", func() {
		board, err := s.service.Scoreboard(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(point.ID, board.ID)
	})

	s.Run("strangers are told to join", func() {
		_, err := s.service.Scoreboard(s.ctx, 99)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// TestScenario walks registration, association, intake and validation with
// mixed case codes and a comma decimal.
func (s *ServiceSuite) TestScenario() {
	s.registerPoint("ESCOLA25", 1)
	donor := s.joinPoint("escola25", 10)

	liters, err := models.ParseLiters("3,5")
	s.Require().NoError(err)
	donation := s.donate(donor, liters)

	result, err := s.service.ValidateDonation(s.ctx, donation.DeliveryCode, 1)
	s.Require().NoError(err)
	s.Equal("3.50", fmt.Sprintf("%.2f", result.CollectionPoint.ValidatedLiters))
}

func (s *ServiceSuite) TestTimeoutIsReported() {
	svc := New(blockingStore{InMemory: s.store},
		WithLogger(logger.Discard()),
		WithTxTimeout(10*time.Millisecond),
	)
	_, err := svc.FindDonorByExternalID(s.ctx, 10)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

func (s *ServiceSuite) TestUnavailableStoreIsInternal() {
	svc := New(unavailableStore{InMemory: s.store}, WithLogger(logger.Discard()))
	_, err := svc.Scoreboard(s.ctx, 10)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.ErrorIs(err, sentinel.ErrUnavailable)
}

type failingCreditStore struct {
	*store.InMemory
}

func (f *failingCreditStore) CreditCollectionPoint(context.Context, uuid.UUID, float64) (*models.CollectionPoint, error) {
	return nil, fmt.Errorf("credit: %w", sentinel.ErrUnavailable)
}

type blockingStore struct {
	*store.InMemory
}

func (blockingStore) RunInTx(ctx context.Context, _ func(context.Context) error) error {
	<-ctx.Done()
	return ctx.Err()
}

type unavailableStore struct {
	*store.InMemory
}

func (unavailableStore) RunInTx(context.Context, func(context.Context) error) error {
	return fmt.Errorf("begin transaction: %w", sentinel.ErrUnavailable)
}
