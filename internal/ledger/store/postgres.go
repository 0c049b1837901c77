package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"oleobot/internal/ledger/models"
	"oleobot/pkg/platform/sentinel"
	"oleobot/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// PostgresStore persists the ledger in PostgreSQL.
// This store is pure I/O; validation and ownership rules belong in the service.
// Uniqueness is enforced by table constraints, never by read-then-write.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ledger store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the ledger tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

// RunInTx runs fn inside a READ COMMITTED transaction carried on the context.
// Nested calls reuse the outer transaction.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := tx.From(ctx); ok {
		return fn(ctx)
	}
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) conn(ctx context.Context) tx.Executor {
	return tx.Conn(ctx, s.db)
}

const collectionPointColumns = `id, campaign_code, institution_name, responsible_name, admin_external_id, validated_liters, created_at`

func (s *PostgresStore) CreateCollectionPoint(ctx context.Context, point *models.CollectionPoint) error {
	query := `
		INSERT INTO collection_points (` + collectionPointColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.conn(ctx).ExecContext(ctx, query,
		point.ID,
		point.CampaignCode,
		point.InstitutionName,
		point.ResponsibleName,
		int64(point.AdminExternalID),
		point.ValidatedLiters,
		point.CreatedAt,
	)
	if err != nil {
		return translateWriteError(err, "create collection point")
	}
	return nil
}

func (s *PostgresStore) FindCollectionPointByID(ctx context.Context, id uuid.UUID) (*models.CollectionPoint, error) {
	return s.findCollectionPoint(ctx, "find collection point by id", `id = $1`, id)
}

func (s *PostgresStore) FindCollectionPointByCode(ctx context.Context, code string) (*models.CollectionPoint, error) {
	return s.findCollectionPoint(ctx, "find collection point by code", `campaign_code = $1`, code)
}

func (s *PostgresStore) FindCollectionPointByAdmin(ctx context.Context, admin models.ExternalID) (*models.CollectionPoint, error) {
	return s.findCollectionPoint(ctx, "find collection point by admin", `admin_external_id = $1`, int64(admin))
}

func (s *PostgresStore) findCollectionPoint(ctx context.Context, op, where string, arg any) (*models.CollectionPoint, error) {
	query := `SELECT ` + collectionPointColumns + ` FROM collection_points WHERE ` + where
	point, err := scanCollectionPoint(s.conn(ctx).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return point, nil
}

// CreditCollectionPoint atomically adds liters and returns the updated row.
func (s *PostgresStore) CreditCollectionPoint(ctx context.Context, id uuid.UUID, liters float64) (*models.CollectionPoint, error) {
	query := `
		UPDATE collection_points
		SET validated_liters = validated_liters + $2
		WHERE id = $1
		RETURNING ` + collectionPointColumns
	point, err := scanCollectionPoint(s.conn(ctx).QueryRowContext(ctx, query, id, liters))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("credit collection point: %w", err)
	}
	return point, nil
}

const donorColumns = `id, external_id, display_name, collection_point_id, created_at`

func (s *PostgresStore) CreateDonor(ctx context.Context, donor *models.Donor) error {
	query := `
		INSERT INTO donors (` + donorColumns + `)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.conn(ctx).ExecContext(ctx, query,
		donor.ID,
		int64(donor.ExternalID),
		donor.DisplayName,
		donor.CollectionPointID,
		donor.CreatedAt,
	)
	if err != nil {
		return translateWriteError(err, "create donor")
	}
	return nil
}

func (s *PostgresStore) FindDonorByID(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	return s.findDonor(ctx, "find donor by id", `id = $1`, id)
}

func (s *PostgresStore) FindDonorByExternalID(ctx context.Context, externalID models.ExternalID) (*models.Donor, error) {
	return s.findDonor(ctx, "find donor by external id", `external_id = $1`, int64(externalID))
}

func (s *PostgresStore) findDonor(ctx context.Context, op, where string, arg any) (*models.Donor, error) {
	query := `SELECT ` + donorColumns + ` FROM donors WHERE ` + where
	var (
		donor      models.Donor
		externalID int64
	)
	err := s.conn(ctx).QueryRowContext(ctx, query, arg).Scan(
		&donor.ID,
		&externalID,
		&donor.DisplayName,
		&donor.CollectionPointID,
		&donor.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	donor.ExternalID = models.ExternalID(externalID)
	donor.CreatedAt = donor.CreatedAt.UTC()
	return &donor, nil
}

const donationColumns = `id, delivery_code, donor_id, liters, status, created_at, validated_at`

// CreateDonation inserts a pending donation. A delivery code collision is
// reported as ErrDeliveryCodeTaken without aborting the surrounding
// transaction, so the caller can draw another code and retry.
func (s *PostgresStore) CreateDonation(ctx context.Context, donation *models.Donation) error {
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (delivery_code) DO NOTHING
	`
	result, err := s.conn(ctx).ExecContext(ctx, query,
		donation.ID,
		donation.DeliveryCode,
		donation.DonorID,
		donation.Liters,
		string(donation.Status),
		donation.CreatedAt,
		donation.ValidatedAt,
	)
	if err != nil {
		return translateWriteError(err, "create donation")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create donation rows affected: %w", err)
	}
	if rows == 0 {
		return ErrDeliveryCodeTaken
	}
	return nil
}

func (s *PostgresStore) FindDonationByCode(ctx context.Context, code string) (*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE delivery_code = $1`
	donation, err := scanDonation(s.conn(ctx).QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find donation by code: %w", err)
	}
	return donation, nil
}

// MarkDonationValidated uses a conditional UPDATE so two concurrent
// validations of the same code cannot both succeed: the second waits on the
// row lock and then matches no pending row.
func (s *PostgresStore) MarkDonationValidated(ctx context.Context, id uuid.UUID, at time.Time) (*models.Donation, error) {
	query := `
		UPDATE donations
		SET status = 'validated', validated_at = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + donationColumns
	donation, err := scanDonation(s.conn(ctx).QueryRowContext(ctx, query, id, at.UTC()))
	if err == nil {
		return donation, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mark donation validated: %w", err)
	}

	var exists bool
	if err := s.conn(ctx).QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM donations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("mark donation validated: %w", err)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return nil, sentinel.ErrInvalidState
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollectionPoint(row rowScanner) (*models.CollectionPoint, error) {
	var (
		point models.CollectionPoint
		admin int64
	)
	if err := row.Scan(
		&point.ID,
		&point.CampaignCode,
		&point.InstitutionName,
		&point.ResponsibleName,
		&admin,
		&point.ValidatedLiters,
		&point.CreatedAt,
	); err != nil {
		return nil, err
	}
	point.AdminExternalID = models.ExternalID(admin)
	point.CreatedAt = point.CreatedAt.UTC()
	return &point, nil
}

func scanDonation(row rowScanner) (*models.Donation, error) {
	var (
		donation    models.Donation
		status      string
		validatedAt sql.NullTime
	)
	if err := row.Scan(
		&donation.ID,
		&donation.DeliveryCode,
		&donation.DonorID,
		&donation.Liters,
		&status,
		&donation.CreatedAt,
		&validatedAt,
	); err != nil {
		return nil, err
	}
	donation.Status = models.DonationStatus(status)
	if !donation.Status.IsValid() {
		return nil, fmt.Errorf("unexpected donation status %q", status)
	}
	donation.CreatedAt = donation.CreatedAt.UTC()
	if validatedAt.Valid {
		at := validatedAt.Time.UTC()
		donation.ValidatedAt = &at
	}
	return &donation, nil
}
