package prescription

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

const rxCols = `id, doctor_id, patient_id, medicine_name, dosage, duration_days,
	start_date, expiry_date, status, notes, created_at, updated_at`

func scanRx(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.DoctorID, &p.PatientID, &p.MedicineName, &p.Dosage,
		&p.DurationDays, &p.StartDate, &p.ExpiryDate, &p.Status, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prescription (id, doctor_id, patient_id, medicine_name, dosage,
			duration_days, start_date, expiry_date, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.DoctorID, p.PatientID, p.MedicineName, p.Dosage,
		p.DurationDays, p.StartDate, p.ExpiryDate, p.Status, p.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return scanRx(r.pool.QueryRow(ctx, `SELECT `+rxCols+` FROM prescription WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Prescription) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE prescription SET medicine_name=$2, dosage=$3, duration_days=$4,
			start_date=$5, expiry_date=$6, status=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.MedicineName, p.Dosage, p.DurationDays,
		p.StartDate, p.ExpiryDate, p.Status, p.Notes)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE prescription SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM prescription WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error) {
	return r.list(ctx, `SELECT `+rxCols+` FROM prescription WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Prescription, error) {
	return r.list(ctx, `SELECT `+rxCols+` FROM prescription WHERE doctor_id = $1 ORDER BY created_at DESC`, doctorID)
}

func (r *repoPG) ListRecentByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*Prescription, error) {
	return r.list(ctx,
		`SELECT `+rxCols+` FROM prescription WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2`,
		patientID, limit)
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prescription`).Scan(&n)
	return n, err
}

func (r *repoPG) list(ctx context.Context, query string, args ...any) ([]*Prescription, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Prescription
	for rows.Next() {
		p, err := scanRx(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
