package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medtrack/medtrack/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const remCols = `id, user_id, medication_id, time_of_day, scheduled_date, taken,
	snoozed, snooze_count, created_at`

func scanReminder(row pgx.Row) (*Reminder, error) {
	var rem Reminder
	err := row.Scan(&rem.ID, &rem.UserID, &rem.MedicationID, &rem.TimeOfDay, &rem.Date,
		&rem.Taken, &rem.Snoozed, &rem.SnoozeCount, &rem.CreatedAt)
	return &rem, err
}

func (r *repoPG) CreateBatch(ctx context.Context, batch []*Reminder) error {
	if len(batch) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(batch))
	for _, rem := range batch {
		rem.ID = uuid.New()
		rows = append(rows, []any{rem.ID, rem.UserID, rem.MedicationID,
			rem.TimeOfDay, rem.Date, rem.Taken, rem.Snoozed, rem.SnoozeCount})
	}
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"reminder"},
		[]string{"id", "user_id", "medication_id", "time_of_day", "scheduled_date",
			"taken", "snoozed", "snooze_count"},
		pgx.CopyFromRows(rows))
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	return scanReminder(r.pool.QueryRow(ctx, `SELECT `+remCols+` FROM reminder WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rem *Reminder) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE reminder SET taken=$2, snoozed=$3, snooze_count=$4
		WHERE id = $1`,
		rem.ID, rem.Taken, rem.Snoozed, rem.SnoozeCount)
	return err
}

func (r *repoPG) DeleteByMedication(ctx context.Context, medicationID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reminder WHERE medication_id = $1`, medicationID)
	return err
}

func (r *repoPG) ListByOwner(ctx context.Context, ownerID uuid.UUID, date *time.Time, page pagination.Params) ([]*Reminder, int, error) {
	where := ` WHERE user_id = $1`
	args := []any{ownerID}
	if date != nil {
		where += ` AND scheduled_date = $2`
		args = append(args, date.Format("2006-01-02"))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reminder`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM reminder%s ORDER BY scheduled_date, time_of_day LIMIT $%d OFFSET $%d`,
		remCols, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reminders []*Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, 0, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, total, rows.Err()
}

func (r *repoPG) TallyForMedication(ctx context.Context, medicationID uuid.UUID) (int, int, error) {
	var total, taken int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE taken)
		FROM reminder WHERE medication_id = $1`, medicationID).Scan(&total, &taken)
	return total, taken, err
}

func (r *repoPG) TallyForOwner(ctx context.Context, ownerID uuid.UUID) (int, int, error) {
	var total, taken int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE taken)
		FROM reminder WHERE user_id = $1`, ownerID).Scan(&total, &taken)
	return total, taken, err
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reminder`).Scan(&n)
	return n, err
}
