package medication

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const medCols = `id, user_id, prescription_id, name, dosage, frequency, time_of_day,
	notification_type, status, adherence_count, created_at, updated_at`

func scanMed(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.UserID, &m.PrescriptionID, &m.Name, &m.Dosage, &m.Frequency,
		&m.TimeOfDay, &m.NotificationType, &m.Status, &m.AdherenceCount, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medication (id, user_id, prescription_id, name, dosage, frequency,
			time_of_day, notification_type, status, adherence_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.UserID, m.PrescriptionID, m.Name, m.Dosage, m.Frequency,
		m.TimeOfDay, m.NotificationType, m.Status, m.AdherenceCount)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMed(r.pool.QueryRow(ctx, `SELECT `+medCols+` FROM medication WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE medication SET name=$2, dosage=$3, frequency=$4, time_of_day=$5,
			notification_type=$6, status=$7, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.Frequency, m.TimeOfDay, m.NotificationType, m.Status)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM medication WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Medication, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+medCols+` FROM medication WHERE user_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meds []*Medication
	for rows.Next() {
		m, err := scanMed(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

func (r *repoPG) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medication WHERE user_id = $1`, ownerID).Scan(&n)
	return n, err
}

// IncrementAdherence is a single-statement increment, so concurrent taken
// events cannot lose updates.
func (r *repoPG) IncrementAdherence(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE medication SET adherence_count = adherence_count + 1, updated_at=NOW() WHERE id = $1`, id)
	return err
}
