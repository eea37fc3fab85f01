package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"claimbank/internal/claim/models"
	"claimbank/pkg/domain"
	"claimbank/pkg/platform/sentinel"
	"claimbank/pkg/platform/tx"
)

// Postgres implements Store on a claims table. Ids come from a
// BIGSERIAL so they increase monotonically and are never reused.
// Operations join an ambient SQL transaction when one is carried in the
// context (pkg/platform/tx), which is how batch commits stay atomic.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed claim store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS claims (
	id                      BIGSERIAL PRIMARY KEY,
	creditor                TEXT        NOT NULL,
	debtor                  TEXT        NOT NULL,
	description             TEXT        NOT NULL DEFAULT '',
	claim_amount            BIGINT      NOT NULL CHECK (claim_amount > 0),
	paid_amount             BIGINT      NOT NULL DEFAULT 0 CHECK (paid_amount >= 0 AND paid_amount <= claim_amount),
	token                   TEXT        NOT NULL,
	due_by                  TIMESTAMPTZ,
	attachment_hash         TEXT        NOT NULL DEFAULT '',
	attachment_hash_function SMALLINT   NOT NULL DEFAULT 0,
	attachment_size         SMALLINT    NOT NULL DEFAULT 0,
	status                  TEXT        NOT NULL,
	tag                     BYTEA,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS claims_creditor_idx ON claims (creditor);
CREATE INDEX IF NOT EXISTS claims_debtor_idx ON claims (debtor);
`

// Migrate creates the claims table if it does not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate claims table: %w", err)
	}
	return nil
}

const claimColumns = `id, creditor, debtor, description, claim_amount, paid_amount, token,
	due_by, attachment_hash, attachment_hash_function, attachment_size, status, tag, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, claim *models.Claim) error {
	q := tx.QuerierFrom(ctx, s.db)
	err := q.QueryRowContext(ctx, `
		INSERT INTO claims (creditor, debtor, description, claim_amount, paid_amount, token,
			due_by, attachment_hash, attachment_hash_function, attachment_size, status, tag, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		claim.Creditor.String(), claim.Debtor.String(), claim.Description,
		claim.ClaimAmount, claim.PaidAmount, claim.Token.String(),
		nullTime(claim.DueBy), claim.Attachment.Hash, int16(claim.Attachment.HashFunction),
		int16(claim.Attachment.Size), claim.Status.String(), claim.Tag,
		claim.CreatedAt, claim.UpdatedAt,
	).Scan(&claim.ID)
	if err != nil {
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id int64) (*models.Claim, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, id)
	claim, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("claim %d: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get claim %d: %w", id, err)
	}
	return claim, nil
}

func (s *Postgres) Update(ctx context.Context, claim *models.Claim) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE claims
		SET paid_amount = $2, status = $3, tag = $4, updated_at = $5
		WHERE id = $1`,
		claim.ID, claim.PaidAmount, claim.Status.String(), claim.Tag, claim.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update claim %d: %w", claim.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update claim %d: %w", claim.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("claim %d: %w", claim.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) ListByParty(ctx context.Context, party domain.Party) ([]*models.Claim, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+claimColumns+` FROM claims
		WHERE creditor = $1 OR debtor = $1
		ORDER BY id`, party.String())
	if err != nil {
		return nil, fmt.Errorf("list claims for %s: %w", party, err)
	}
	defer rows.Close()

	var claims []*models.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("list claims for %s: %w", party, err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list claims for %s: %w", party, err)
	}
	return claims, nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClaim(row scanner) (*models.Claim, error) {
	var (
		claim    models.Claim
		creditor string
		debtor   string
		token    string
		status   string
		dueBy    sql.NullTime
		hashFn   int16
		size     int16
	)
	err := row.Scan(
		&claim.ID, &creditor, &debtor, &claim.Description,
		&claim.ClaimAmount, &claim.PaidAmount, &token,
		&dueBy, &claim.Attachment.Hash, &hashFn, &size,
		&status, &claim.Tag, &claim.CreatedAt, &claim.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	claim.Creditor = domain.Party(creditor)
	claim.Debtor = domain.Party(debtor)
	claim.Token = domain.Token(token)
	claim.Status = models.Status(status)
	claim.Attachment.HashFunction = uint8(hashFn)
	claim.Attachment.Size = uint8(size)
	if dueBy.Valid {
		claim.DueBy = dueBy.Time
	}
	return &claim, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
