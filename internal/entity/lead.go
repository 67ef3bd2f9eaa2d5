package entity

import (
	"context"
	"strings"
	"time"
)

type Status string

const (
	StatusNew       Status = "New"
	StatusFollowUp  Status = "Follow-Up"
	StatusQualified Status = "Qualified"
	StatusConverted Status = "Converted"
)

type Qualification string

const (
	QualificationHighSchool Qualification = "High School"
	QualificationBachelors  Qualification = "Bachelors"
	QualificationMasters    Qualification = "Masters"
	QualificationPhD        Qualification = "PhD"
	QualificationOther      Qualification = "Other"
)

type Source string

const (
	SourceWebsite       Source = "Website"
	SourceColdCall      Source = "Cold Call"
	SourceEmailCampaign Source = "Email Campaign"
	SourceSocialMedia   Source = "Social Media"
)

// Ordem importa: o primeiro valor de cada enum é o default.
var (
	statuses       = []Status{StatusNew, StatusFollowUp, StatusQualified, StatusConverted}
	qualifications = []Qualification{QualificationHighSchool, QualificationBachelors, QualificationMasters, QualificationPhD, QualificationOther}
	sources        = []Source{SourceWebsite, SourceColdCall, SourceEmailCampaign, SourceSocialMedia}
)

// Sugestões oferecidas pelo formulário. Não são validadas.
var (
	InterestOptions    = []string{"Web Development", "Mobile Development", "Data Science", "Digital Marketing", "UI/UX Design"}
	AssignedToOptions  = []string{"John Doe", "Jane Smith", "Emily Davis", "Robert Johnson"}
	JobInterestOptions = []string{"Frontend Developer", "Backend Developer", "Full Stack", "Data Analyst"}
)

func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// StatusNames lista os status válidos separados por vírgula, na ordem do funil.
func StatusNames() string {
	names := make([]string, 0, len(statuses))
	for _, st := range Statuses() {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}

func ParseStatus(s string) (Status, error) {
	for _, v := range statuses {
		if string(v) == s {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: "must be one of " + StatusNames()}
}

func ParseQualification(s string) (Qualification, error) {
	for _, v := range qualifications {
		if string(v) == s {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "qualification", Message: "must be one of High School, Bachelors, Masters, PhD, Other"}
}

func ParseSource(s string) (Source, error) {
	for _, v := range sources {
		if string(v) == s {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "source", Message: "must be one of Website, Cold Call, Email Campaign, Social Media"}
}

// Entidade: Lead
type Lead struct {
	ID            string        `json:"id,omitempty"` // só existe para leads remotos
	Name          string        `json:"name"`
	Contact       string        `json:"contact"`
	AltPhone      string        `json:"altPhone,omitempty"`
	Email         string        `json:"email,omitempty"`
	AltEmail      string        `json:"altEmail,omitempty"`
	Status        Status        `json:"status"`
	Qualification Qualification `json:"qualification"`
	Interest      string        `json:"interest"`
	Source        Source        `json:"source"`
	AssignedTo    string        `json:"assignedTo"`
	JobInterest   string        `json:"jobInterest,omitempty"`
	State         string        `json:"state,omitempty"`
	City          string        `json:"city,omitempty"`
	PassoutYear   string        `json:"passoutYear,omitempty"`
	HeardFrom     string        `json:"heardFrom,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Factory: aplica defaults, valida e carimba UpdatedAt. Não tem efeitos colaterais.
func NewLead(l Lead) (*Lead, error) {
	lead := l
	lead.Name = strings.TrimSpace(lead.Name)

	if lead.Status == "" {
		lead.Status = statuses[0]
	}
	if lead.Qualification == "" {
		lead.Qualification = qualifications[0]
	}
	if lead.Source == "" {
		lead.Source = sources[0]
	}
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = time.Now().UTC()
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return &lead, nil
}

func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if _, err := ParseStatus(string(l.Status)); err != nil {
		return err
	}
	if _, err := ParseQualification(string(l.Qualification)); err != nil {
		return err
	}
	if _, err := ParseSource(string(l.Source)); err != nil {
		return err
	}
	return nil
}

// Touch renova UpdatedAt garantindo que o novo valor seja estritamente maior que o anterior.
// O passo mínimo é de um microssegundo, a precisão do timestamptz do Postgres.
func (l *Lead) Touch(now time.Time) {
	now = now.UTC()
	if !now.After(l.UpdatedAt) {
		now = l.UpdatedAt.Add(time.Microsecond)
	}
	l.UpdatedAt = now
}

type LeadRepositoryInterface interface {
	QueryLeads(ctx context.Context, status *Status) ([]Lead, error)
	InsertLead(ctx context.Context, lead Lead) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error)
	DeleteLead(ctx context.Context, id string) error
}
