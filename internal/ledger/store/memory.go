package store

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"oleobot/internal/ledger/models"
	"oleobot/pkg/platform/sentinel"
)

// InMemory keeps records in process maps. RunInTx holds a single lock for the
// whole callback and restores a snapshot when the callback fails, so partial
// writes are never observable.
type InMemory struct {
	mu sync.Mutex

	points       map[uuid.UUID]models.CollectionPoint
	pointByCode  map[string]uuid.UUID
	pointByAdmin map[models.ExternalID]uuid.UUID

	donors      map[uuid.UUID]models.Donor
	donorByUser map[models.ExternalID]uuid.UUID

	donations      map[uuid.UUID]models.Donation
	donationByCode map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		points:         make(map[uuid.UUID]models.CollectionPoint),
		pointByCode:    make(map[string]uuid.UUID),
		pointByAdmin:   make(map[models.ExternalID]uuid.UUID),
		donors:         make(map[uuid.UUID]models.Donor),
		donorByUser:    make(map[models.ExternalID]uuid.UUID),
		donations:      make(map[uuid.UUID]models.Donation),
		donationByCode: make(map[string]uuid.UUID),
	}
}

type memTxKey struct{}

type snapshot struct {
	points         map[uuid.UUID]models.CollectionPoint
	pointByCode    map[string]uuid.UUID
	pointByAdmin   map[models.ExternalID]uuid.UUID
	donors         map[uuid.UUID]models.Donor
	donorByUser    map[models.ExternalID]uuid.UUID
	donations      map[uuid.UUID]models.Donation
	donationByCode map[string]uuid.UUID
}

func (s *InMemory) snapshot() snapshot {
	return snapshot{
		points:         maps.Clone(s.points),
		pointByCode:    maps.Clone(s.pointByCode),
		pointByAdmin:   maps.Clone(s.pointByAdmin),
		donors:         maps.Clone(s.donors),
		donorByUser:    maps.Clone(s.donorByUser),
		donations:      maps.Clone(s.donations),
		donationByCode: maps.Clone(s.donationByCode),
	}
}

func (s *InMemory) restore(snap snapshot) {
	s.points = snap.points
	s.pointByCode = snap.pointByCode
	s.pointByAdmin = snap.pointByAdmin
	s.donors = snap.donors
	s.donorByUser = snap.donorByUser
	s.donations = snap.donations
	s.donationByCode = snap.donationByCode
}

// RunInTx runs fn while holding the store lock. Nested calls with a context
// already inside this store's transaction run fn directly.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()
	return fn(context.WithValue(ctx, memTxKey{}, s))
}

func (s *InMemory) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(memTxKey{}).(*InMemory)
	return ok && owner == s
}

// lock acquires the store lock unless ctx already holds it through RunInTx.
func (s *InMemory) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *InMemory) CreateCollectionPoint(ctx context.Context, point *models.CollectionPoint) error {
	defer s.lock(ctx)()
	if _, taken := s.pointByCode[point.CampaignCode]; taken {
		return ErrCampaignCodeTaken
	}
	if _, taken := s.pointByAdmin[point.AdminExternalID]; taken {
		return ErrAdminTaken
	}
	s.points[point.ID] = *point
	s.pointByCode[point.CampaignCode] = point.ID
	s.pointByAdmin[point.AdminExternalID] = point.ID
	return nil
}

func (s *InMemory) FindCollectionPointByID(ctx context.Context, id uuid.UUID) (*models.CollectionPoint, error) {
	defer s.lock(ctx)()
	point, ok := s.points[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &point, nil
}

func (s *InMemory) FindCollectionPointByCode(ctx context.Context, code string) (*models.CollectionPoint, error) {
	defer s.lock(ctx)()
	id, ok := s.pointByCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	point := s.points[id]
	return &point, nil
}

func (s *InMemory) FindCollectionPointByAdmin(ctx context.Context, admin models.ExternalID) (*models.CollectionPoint, error) {
	defer s.lock(ctx)()
	id, ok := s.pointByAdmin[admin]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	point := s.points[id]
	return &point, nil
}

func (s *InMemory) CreditCollectionPoint(ctx context.Context, id uuid.UUID, liters float64) (*models.CollectionPoint, error) {
	defer s.lock(ctx)()
	point, ok := s.points[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	point.Credit(liters)
	s.points[id] = point
	return &point, nil
}

func (s *InMemory) CreateDonor(ctx context.Context, donor *models.Donor) error {
	defer s.lock(ctx)()
	if _, ok := s.points[donor.CollectionPointID]; !ok {
		return sentinel.ErrNotFound
	}
	if _, taken := s.donorByUser[donor.ExternalID]; taken {
		return ErrDonorTaken
	}
	s.donors[donor.ID] = *donor
	s.donorByUser[donor.ExternalID] = donor.ID
	return nil
}

func (s *InMemory) FindDonorByID(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	defer s.lock(ctx)()
	donor, ok := s.donors[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &donor, nil
}

func (s *InMemory) FindDonorByExternalID(ctx context.Context, externalID models.ExternalID) (*models.Donor, error) {
	defer s.lock(ctx)()
	id, ok := s.donorByUser[externalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	donor := s.donors[id]
	return &donor, nil
}

func (s *InMemory) CreateDonation(ctx context.Context, donation *models.Donation) error {
	defer s.lock(ctx)()
	if _, ok := s.donors[donation.DonorID]; !ok {
		return sentinel.ErrNotFound
	}
	if _, taken := s.donationByCode[donation.DeliveryCode]; taken {
		return ErrDeliveryCodeTaken
	}
	s.donations[donation.ID] = *donation
	s.donationByCode[donation.DeliveryCode] = donation.ID
	return nil
}

func (s *InMemory) FindDonationByCode(ctx context.Context, code string) (*models.Donation, error) {
	defer s.lock(ctx)()
	id, ok := s.donationByCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	donation := s.donations[id]
	return &donation, nil
}

// MarkDonationValidated flips a pending donation to validated. Returns
// sentinel.ErrInvalidState when the donation is not pending.
func (s *InMemory) MarkDonationValidated(ctx context.Context, id uuid.UUID, at time.Time) (*models.Donation, error) {
	defer s.lock(ctx)()
	donation, ok := s.donations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := donation.CanValidate(); err != nil {
		return nil, sentinel.ErrInvalidState
	}
	donation.ApplyValidation(at)
	s.donations[id] = donation
	return &donation, nil
}
