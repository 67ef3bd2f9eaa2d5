package supabase

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// leadRow é o formato da tabela leads no PostgREST.
type leadRow struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Contact       string    `json:"contact"`
	AltPhone      *string   `json:"alt_phone"`
	Email         *string   `json:"email"`
	AltEmail      *string   `json:"alt_email"`
	Status        string    `json:"status"`
	Qualification string    `json:"qualification"`
	Interest      string    `json:"interest"`
	Source        string    `json:"source"`
	AssignedTo    string    `json:"assigned_to"`
	JobInterest   *string   `json:"job_interest"`
	State         *string   `json:"state"`
	City          *string   `json:"city"`
	PassoutYear   *string   `json:"passout_year"`
	HeardFrom     *string   `json:"heard_from"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type statusPatch struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRow(l entity.Lead) leadRow {
	return leadRow{
		ID:            l.ID,
		Name:          l.Name,
		Contact:       l.Contact,
		AltPhone:      optional(l.AltPhone),
		Email:         optional(l.Email),
		AltEmail:      optional(l.AltEmail),
		Status:        string(l.Status),
		Qualification: string(l.Qualification),
		Interest:      l.Interest,
		Source:        string(l.Source),
		AssignedTo:    l.AssignedTo,
		JobInterest:   optional(l.JobInterest),
		State:         optional(l.State),
		City:          optional(l.City),
		PassoutYear:   optional(l.PassoutYear),
		HeardFrom:     optional(l.HeardFrom),
		UpdatedAt:     l.UpdatedAt.UTC(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
