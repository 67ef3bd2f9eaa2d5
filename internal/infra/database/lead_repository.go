package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

const leadColumns = `id, name, contact, alt_phone, email, alt_email, status, qualification, interest,
	source, assigned_to, job_interest, state, city, passout_year, heard_from, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) QueryLeads(ctx context.Context, status *entity.Status) ([]entity.Lead, error) {
	query, args := buildQueryLeads(status)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "query", Err: err}
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, &entity.RemoteQueryError{Op: "query", Err: err}
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, &entity.RemoteQueryError{Op: "query", Err: err}
	}

	return leads, nil
}

func buildQueryLeads(status *entity.Status) (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT " + leadColumns + " FROM leads")
	if status != nil {
		args = append(args, string(*status))
		b.WriteString(fmt.Sprintf(" WHERE status = $%d", len(args)))
	}
	b.WriteString(" ORDER BY updated_at DESC")

	return b.String(), args
}

func (r *LeadRepository) InsertLead(ctx context.Context, lead entity.Lead) (*entity.Lead, error) {
	lead.ID = uuid.New().String()

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + leadColumns

	row := r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Contact,
		nullString(lead.AltPhone),
		nullString(lead.Email),
		nullString(lead.AltEmail),
		string(lead.Status),
		string(lead.Qualification),
		lead.Interest,
		string(lead.Source),
		lead.AssignedTo,
		nullString(lead.JobInterest),
		nullString(lead.State),
		nullString(lead.City),
		nullString(lead.PassoutYear),
		nullString(lead.HeardFrom),
		lead.UpdatedAt,
	)

	saved, err := scanLead(row)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "insert", Err: err}
	}
	return saved, nil
}

// UpdateStatus garante updated_at estritamente crescente mesmo com relógios fora de sincronia.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	query := `
		UPDATE leads
		SET status = $1,
			updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
		WHERE id = $2
		RETURNING ` + leadColumns

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, string(status), id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "update", Err: err}
	}
	return lead, nil
}

func (r *LeadRepository) DeleteLead(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return &entity.RemoteQueryError{Op: "delete", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &entity.RemoteQueryError{Op: "delete", Err: err}
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// FindStaleByStatus busca leads parados no status desde antes de olderThan.
func (r *LeadRepository) FindStaleByStatus(ctx context.Context, status entity.Status, olderThan time.Time) ([]entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE status = $1 AND updated_at < $2 ORDER BY updated_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, string(status), olderThan)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "find stale", Err: err}
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, &entity.RemoteQueryError{Op: "find stale", Err: err}
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, &entity.RemoteQueryError{Op: "find stale", Err: err}
	}
	return leads, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (*entity.Lead, error) {
	var (
		lead                                   entity.Lead
		status, qualification, source          string
		altPhone, email, altEmail, jobInterest sql.NullString
		state, city, passoutYear, heardFrom    sql.NullString
	)

	err := s.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Contact,
		&altPhone,
		&email,
		&altEmail,
		&status,
		&qualification,
		&lead.Interest,
		&source,
		&lead.AssignedTo,
		&jobInterest,
		&state,
		&city,
		&passoutYear,
		&heardFrom,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Status = entity.Status(status)
	lead.Qualification = entity.Qualification(qualification)
	lead.Source = entity.Source(source)
	lead.AltPhone = altPhone.String
	lead.Email = email.String
	lead.AltEmail = altEmail.String
	lead.JobInterest = jobInterest.String
	lead.State = state.String
	lead.City = city.String
	lead.PassoutYear = passoutYear.String
	lead.HeardFrom = heardFrom.String
	lead.UpdatedAt = lead.UpdatedAt.UTC()

	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
