package emergency

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Case Repository ===========

type caseRepoPG struct{ pool *pgxpool.Pool }

func NewCaseRepoPG(pool *pgxpool.Pool) CaseRepository { return &caseRepoPG{pool: pool} }

func (r *caseRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const caseCols = `c.id, c.token, c.patient_id, c.patient_name, c.patient_phone, c.patient_location,
	c.symptom, c.symptom_description, c.priority, c.score, c.assigned_doctor_id, c.assigned_hospital_id,
	c.status, c.mode, c.eta, c.created_at, c.updated_at, d.name, h.name`

const caseFrom = ` FROM emergency_case c
	LEFT JOIN doctor d ON d.id = c.assigned_doctor_id
	LEFT JOIN hospital h ON h.id = c.assigned_hospital_id`

const queueOrder = ` ORDER BY c.score, c.created_at, c.id`

func (r *caseRepoPG) scanCase(row pgx.Row) (*Case, error) {
	var c Case
	err := row.Scan(&c.ID, &c.Token, &c.PatientID, &c.Name, &c.Phone, &c.Location,
		&c.Symptom, &c.Description, &c.Priority, &c.Score, &c.DoctorID, &c.HospitalID,
		&c.Status, &c.Mode, &c.ETA, &c.CreatedAt, &c.UpdatedAt, &c.DoctorName, &c.HospitalName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *caseRepoPG) collect(rows pgx.Rows) ([]*Case, error) {
	defer rows.Close()
	var items []*Case
	for rows.Next() {
		c, err := r.scanCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Create uses ON CONFLICT DO NOTHING so a token clash reports zero rows
// instead of aborting a surrounding transaction.
func (r *caseRepoPG) Create(ctx context.Context, c *Case) error {
	id := uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO emergency_case (id, token, patient_id, patient_name, patient_phone, patient_location,
			symptom, symptom_description, priority, score, assigned_doctor_id, assigned_hospital_id,
			status, mode, eta)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (token) DO NOTHING
		RETURNING created_at, updated_at`,
		id, c.Token, c.PatientID, c.Name, c.Phone, c.Location,
		c.Symptom, c.Description, c.Priority, c.Score, c.DoctorID, c.HospitalID,
		c.Status, c.Mode, c.ETA,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateToken
	}
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *caseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Case, error) {
	return r.scanCase(r.conn(ctx).QueryRow(ctx, `SELECT `+caseCols+caseFrom+` WHERE c.id = $1`, id))
}

func (r *caseRepoPG) GetByToken(ctx context.Context, token string) (*Case, error) {
	return r.scanCase(r.conn(ctx).QueryRow(ctx, `SELECT `+caseCols+caseFrom+` WHERE c.token = $1`, token))
}

func (r *caseRepoPG) UpdateProgress(ctx context.Context, id uuid.UUID, status triage.Status, eta string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE emergency_case SET status = $2, eta = $3, updated_at = NOW()
		WHERE id = $1`, id, status, eta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func statusArgs(statuses []triage.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *caseRepoPG) ListOpen(ctx context.Context) ([]*Case, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+caseCols+caseFrom+
		` WHERE c.status = ANY($1)`+queueOrder, statusArgs(triage.OpenStatuses()))
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *caseRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Case, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+caseCols+caseFrom+
		` WHERE c.assigned_doctor_id = $1`+queueOrder, doctorID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *caseRepoPG) List(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM emergency_case`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+caseCols+caseFrom+
		` ORDER BY c.created_at DESC, c.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *caseRepoPG) CountByStatus(ctx context.Context, statuses ...triage.Status) (int, error) {
	query := `SELECT COUNT(*) FROM emergency_case`
	var args []interface{}
	if len(statuses) > 0 {
		query += ` WHERE status = ANY($1)`
		args = append(args, statusArgs(statuses))
	}
	var n int
	err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

// =========== Home Care Repository ===========

type homeCareRepoPG struct{ pool *pgxpool.Pool }

func NewHomeCareRepoPG(pool *pgxpool.Pool) HomeCareRepository { return &homeCareRepoPG{pool: pool} }

func (r *homeCareRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *homeCareRepoPG) Create(ctx context.Context, hc *HomeCareRequest) error {
	id := uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO home_care_request (id, token, patient_name, phone, address, issue, mode,
			assigned_doctor_id, emergency_case_id, status, eta)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (token) DO NOTHING
		RETURNING created_at, updated_at`,
		id, hc.Token, hc.Name, hc.Phone, hc.Address, hc.Issue, hc.Mode,
		hc.DoctorID, hc.CaseID, hc.Status, hc.ETA,
	).Scan(&hc.CreatedAt, &hc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateToken
	}
	if err != nil {
		return err
	}
	hc.ID = id
	return nil
}

func (r *homeCareRepoPG) GetByToken(ctx context.Context, token string) (*HomeCareRequest, error) {
	var hc HomeCareRequest
	var caseToken *string
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT r.id, r.token, r.patient_name, r.phone, r.address, r.issue, r.mode,
			r.assigned_doctor_id, r.emergency_case_id, r.status, r.eta, r.created_at, r.updated_at,
			c.token, d.name
		FROM home_care_request r
		LEFT JOIN emergency_case c ON c.id = r.emergency_case_id
		LEFT JOIN doctor d ON d.id = r.assigned_doctor_id
		WHERE r.token = $1`, strings.TrimSpace(token),
	).Scan(&hc.ID, &hc.Token, &hc.Name, &hc.Phone, &hc.Address, &hc.Issue, &hc.Mode,
		&hc.DoctorID, &hc.CaseID, &hc.Status, &hc.ETA, &hc.CreatedAt, &hc.UpdatedAt,
		&caseToken, &hc.DoctorName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrHomeCareNotFound
	}
	if err != nil {
		return nil, err
	}
	if caseToken != nil {
		hc.CaseToken = *caseToken
	}
	return &hc, nil
}
