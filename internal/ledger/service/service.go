package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"oleobot/internal/ledger/models"
	"oleobot/internal/platform/metrics"
	dErrors "oleobot/pkg/domain-errors"
)

const (
	defaultTxTimeout       = 5 * time.Second
	defaultMaxCodeAttempts = 8
)

// Store is the persistence port. Implementations return sentinel facts and
// must make every method participate in the transaction carried by ctx.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreateCollectionPoint(ctx context.Context, point *models.CollectionPoint) error
	FindCollectionPointByID(ctx context.Context, id uuid.UUID) (*models.CollectionPoint, error)
	FindCollectionPointByCode(ctx context.Context, code string) (*models.CollectionPoint, error)
	FindCollectionPointByAdmin(ctx context.Context, admin models.ExternalID) (*models.CollectionPoint, error)
	CreditCollectionPoint(ctx context.Context, id uuid.UUID, liters float64) (*models.CollectionPoint, error)

	CreateDonor(ctx context.Context, donor *models.Donor) error
	FindDonorByID(ctx context.Context, id uuid.UUID) (*models.Donor, error)
	FindDonorByExternalID(ctx context.Context, externalID models.ExternalID) (*models.Donor, error)

	CreateDonation(ctx context.Context, donation *models.Donation) error
	FindDonationByCode(ctx context.Context, code string) (*models.Donation, error)
	MarkDonationValidated(ctx context.Context, id uuid.UUID, at time.Time) (*models.Donation, error)
}

// ValidationResult is everything the caller needs to confirm a validation and
// notify the donor.
type ValidationResult struct {
	Donation        *models.Donation
	Donor           *models.Donor
	CollectionPoint *models.CollectionPoint
}

// Service owns the ledger rules: uniqueness, the donation status transition
// and the ownership check during validation.
type Service struct {
	store           Store
	logger          *slog.Logger
	metrics         *metrics.Metrics
	tracer          trace.Tracer
	now             func() time.Time
	newCode         models.CodeGenerator
	txTimeout       time.Duration
	maxCodeAttempts int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithCodeGenerator(gen models.CodeGenerator) Option {
	return func(s *Service) {
		s.newCode = gen
	}
}

func WithTxTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.txTimeout = timeout
		}
	}
}

func WithMaxCodeAttempts(attempts int) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.maxCodeAttempts = attempts
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:           store,
		logger:          slog.Default(),
		tracer:          otel.Tracer("oleobot/ledger"),
		now:             time.Now,
		newCode:         models.RandomDeliveryCode,
		txTimeout:       defaultTxTimeout,
		maxCodeAttempts: defaultMaxCodeAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// inTx runs fn in one store transaction bounded by the configured timeout and
// traced as a single span.
func (s *Service) inTx(ctx context.Context, op string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := s.tracer.Start(ctx, "ledger."+op, trace.WithAttributes(attrs...))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err := s.store.RunInTx(ctx, fn)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !dErrors.HasCode(err, dErrors.CodeTimeout) {
		err = dErrors.Wrap(err, dErrors.CodeTimeout, "ledger operation timed out")
	}
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		span.RecordError(err)
	}
	return err
}

// FindCollectionPointByAdmin returns the point administered by admin.
// Returns CodeNotFound when admin administers none.
func (s *Service) FindCollectionPointByAdmin(ctx context.Context, admin models.ExternalID) (*models.CollectionPoint, error) {
	var point *models.CollectionPoint
	err := s.inTx(ctx, "find_collection_point_by_admin", func(ctx context.Context) error {
		var err error
		point, err = s.store.FindCollectionPointByAdmin(ctx, admin)
		return translateFind(err, "collection point not found")
	}, attribute.String("user_id", admin.String()))
	if err != nil {
		return nil, translate(err, "failed to load collection point")
	}
	return point, nil
}

// FindCollectionPointByCode looks a point up by campaign code, case-insensitively.
func (s *Service) FindCollectionPointByCode(ctx context.Context, code string) (*models.CollectionPoint, error) {
	code = models.NormalizeCampaignCode(code)
	if err := models.ValidateCampaignCode(code); err != nil {
		return nil, err
	}
	var point *models.CollectionPoint
	err := s.inTx(ctx, "find_collection_point_by_code", func(ctx context.Context) error {
		var err error
		point, err = s.store.FindCollectionPointByCode(ctx, code)
		return translateFind(err, "collection point not found")
	}, attribute.String("campaign_code", code))
	if err != nil {
		return nil, translate(err, "failed to load collection point")
	}
	return point, nil
}

func (s *Service) FindCollectionPointByID(ctx context.Context, id uuid.UUID) (*models.CollectionPoint, error) {
	var point *models.CollectionPoint
	err := s.inTx(ctx, "find_collection_point_by_id", func(ctx context.Context) error {
		var err error
		point, err = s.store.FindCollectionPointByID(ctx, id)
		return translateFind(err, "collection point not found")
	})
	if err != nil {
		return nil, translate(err, "failed to load collection point")
	}
	return point, nil
}

func (s *Service) FindDonorByExternalID(ctx context.Context, externalID models.ExternalID) (*models.Donor, error) {
	var donor *models.Donor
	err := s.inTx(ctx, "find_donor_by_external_id", func(ctx context.Context) error {
		var err error
		donor, err = s.store.FindDonorByExternalID(ctx, externalID)
		return translateFind(err, "donor not found")
	}, attribute.String("user_id", externalID.String()))
	if err != nil {
		return nil, translate(err, "failed to load donor")
	}
	return donor, nil
}

func (s *Service) FindDonationByCode(ctx context.Context, code string) (*models.Donation, error) {
	code = normalizeDeliveryCode(code)
	var donation *models.Donation
	err := s.inTx(ctx, "find_donation_by_code", func(ctx context.Context) error {
		var err error
		donation, err = s.store.FindDonationByCode(ctx, code)
		return translateFind(err, "donation not found")
	}, attribute.String("delivery_code", code))
	if err != nil {
		return nil, translate(err, "failed to load donation")
	}
	return donation, nil
}

// CreateCollectionPoint registers a new point administered by admin.
// Returns CodeDuplicateCode or CodeDuplicateAdmin when the store rejects it.
func (s *Service) CreateCollectionPoint(ctx context.Context, code, institutionName, responsibleName string, admin models.ExternalID) (*models.CollectionPoint, error) {
	point, err := models.NewCollectionPoint(uuid.New(), code, institutionName, responsibleName, admin, s.now())
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, "create_collection_point", func(ctx context.Context) error {
		return s.store.CreateCollectionPoint(ctx, point)
	}, attribute.String("campaign_code", point.CampaignCode), attribute.String("user_id", admin.String()))
	if err != nil {
		return nil, translate(err, "failed to create collection point")
	}

	s.logger.InfoContext(ctx, "collection point registered",
		"collection_point_id", point.ID,
		"campaign_code", point.CampaignCode,
		"user_id", admin.String(),
	)
	s.metrics.IncrementCollectionPointRegistered()
	return point, nil
}

// CreateDonor associates externalID with a collection point for good.
func (s *Service) CreateDonor(ctx context.Context, externalID models.ExternalID, displayName string, collectionPointID uuid.UUID) (*models.Donor, error) {
	donor, err := models.NewDonor(uuid.New(), externalID, displayName, collectionPointID, s.now())
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, "create_donor", func(ctx context.Context) error {
		return s.store.CreateDonor(ctx, donor)
	}, attribute.String("user_id", externalID.String()))
	if err != nil {
		return nil, translateDonorError(err)
	}

	s.logger.InfoContext(ctx, "donor associated",
		"donor_id", donor.ID,
		"collection_point_id", collectionPointID,
		"user_id", externalID.String(),
	)
	s.metrics.IncrementDonorAssociated()
	return donor, nil
}

// CreateDonation records a pending donation under a fresh delivery code.
// A colliding code is redrawn up to the configured number of attempts.
func (s *Service) CreateDonation(ctx context.Context, donorID uuid.UUID, liters float64) (*models.Donation, error) {
	if err := models.ValidateLiters(liters); err != nil {
		return nil, err
	}

	var donation *models.Donation
	err := s.inTx(ctx, "create_donation", func(ctx context.Context) error {
		for attempt := 1; attempt <= s.maxCodeAttempts; attempt++ {
			code, err := s.newCode()
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate delivery code")
			}
			candidate, err := models.NewDonation(uuid.New(), code, donorID, liters, s.now())
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "generated an invalid donation")
			}
			err = s.store.CreateDonation(ctx, candidate)
			if err == nil {
				donation = candidate
				return nil
			}
			if !isDeliveryCodeCollision(err) {
				return err
			}
			s.metrics.IncrementDeliveryCodeCollision()
			s.logger.WarnContext(ctx, "delivery code collision",
				"delivery_code", code,
				"attempt", attempt,
			)
		}
		return dErrors.New(dErrors.CodeInternal, "could not allocate a unique delivery code")
	}, attribute.Float64("liters", liters))
	if err != nil {
		return nil, translate(err, "failed to create donation")
	}

	s.logger.InfoContext(ctx, "donation registered",
		"donation_id", donation.ID,
		"delivery_code", donation.DeliveryCode,
		"donor_id", donorID,
		"liters", liters,
	)
	s.metrics.IncrementDonationRegistered()
	return donation, nil
}

// ValidateDonation confirms delivery of the donation identified by code on
// behalf of admin. The status flip and the credit to the collection point
// commit together or not at all.
//
// Errors:
//   - CodeForbidden when admin administers no collection point
//   - CodeNotFound when no donation carries code
//   - CodeAlreadyValidated when the donation was validated before
//   - CodeWrongCampaign when the donor belongs to another collection point
func (s *Service) ValidateDonation(ctx context.Context, code string, admin models.ExternalID) (*ValidationResult, error) {
	code = normalizeDeliveryCode(code)
	var result ValidationResult
	err := s.inTx(ctx, "validate_donation", func(ctx context.Context) error {
		point, err := s.store.FindCollectionPointByAdmin(ctx, admin)
		if err != nil {
			if isNotFound(err) {
				return dErrors.New(dErrors.CodeForbidden, "only collection point admins can validate donations")
			}
			return err
		}

		donation, err := s.store.FindDonationByCode(ctx, code)
		if err != nil {
			return translateFind(err, "donation not found")
		}
		if err := donation.CanValidate(); err != nil {
			return err
		}

		donor, err := s.store.FindDonorByID(ctx, donation.DonorID)
		if err != nil {
			return translateFind(err, "donor not found")
		}
		if !donor.BelongsTo(point.ID) {
			return dErrors.New(dErrors.CodeWrongCampaign, "donation belongs to another collection point")
		}

		validated, err := s.store.MarkDonationValidated(ctx, donation.ID, s.now())
		if err != nil {
			if isInvalidState(err) {
				return dErrors.New(dErrors.CodeAlreadyValidated, "donation was already validated")
			}
			return err
		}
		credited, err := s.store.CreditCollectionPoint(ctx, point.ID, validated.Liters)
		if err != nil {
			return err
		}

		result = ValidationResult{Donation: validated, Donor: donor, CollectionPoint: credited}
		return nil
	}, attribute.String("delivery_code", code), attribute.String("user_id", admin.String()))
	if err != nil {
		err = translate(err, "failed to validate donation")
		reason := dErrors.CodeOf(err)
		if reason != dErrors.CodeInternal && reason != dErrors.CodeTimeout {
			s.metrics.IncrementValidationRejected(string(reason))
			s.logger.InfoContext(ctx, "donation validation rejected",
				"delivery_code", code,
				"user_id", admin.String(),
				"reason", string(reason),
			)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "donation validated",
		"delivery_code", result.Donation.DeliveryCode,
		"collection_point_id", result.CollectionPoint.ID,
		"liters", result.Donation.Liters,
		"total_liters", result.CollectionPoint.ValidatedLiters,
	)
	s.metrics.ObserveValidation(result.Donation.Liters)
	return &result, nil
}

// Scoreboard resolves the caller's collection point: the one they donate to
// first, otherwise the one they administer.
func (s *Service) Scoreboard(ctx context.Context, externalID models.ExternalID) (*models.CollectionPoint, error) {
	var point *models.CollectionPoint
	err := s.inTx(ctx, "scoreboard", func(ctx context.Context) error {
		donor, err := s.store.FindDonorByExternalID(ctx, externalID)
		switch {
		case err == nil:
			point, err = s.store.FindCollectionPointByID(ctx, donor.CollectionPointID)
			return translateFind(err, "collection point not found")
		case !isNotFound(err):
			return err
		}

		point, err = s.store.FindCollectionPointByAdmin(ctx, externalID)
		return translateFind(err, "caller has not joined a collection point")
	}, attribute.String("user_id", externalID.String()))
	if err != nil {
		return nil, translate(err, "failed to load collection point")
	}
	return point, nil
}
