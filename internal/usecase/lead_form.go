package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// Tela para onde o app volta depois de um cadastro bem sucedido.
const ScreenLeads = "Leads"

// LeadDraft espelha os campos do formulário de cadastro.
type LeadDraft struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	AltPhone      string `json:"altPhone"`
	Email         string `json:"email"`
	AltEmail      string `json:"altEmail"`
	Status        string `json:"status"`
	Qualification string `json:"qualification"`
	InterestField string `json:"interestField"`
	Source        string `json:"source"`
	AssignedTo    string `json:"assignedTo"`
	JobInterest   string `json:"jobInterest"`
	State         string `json:"state"`
	City          string `json:"city"`
	PassoutYear   string `json:"passoutYear"`
	HeardFrom     string `json:"heardFrom"`
}

func DefaultDraft() LeadDraft {
	return LeadDraft{
		Status:        string(entity.StatusNew),
		Qualification: string(entity.QualificationHighSchool),
		InterestField: entity.InterestOptions[0],
		Source:        string(entity.SourceWebsite),
		AssignedTo:    entity.AssignedToOptions[0],
	}
}

// WithDefaults preenche os campos de seleção vazios com os valores padrão.
func (d LeadDraft) WithDefaults() LeadDraft {
	def := DefaultDraft()
	if d.Status == "" {
		d.Status = def.Status
	}
	if d.Qualification == "" {
		d.Qualification = def.Qualification
	}
	if d.InterestField == "" {
		d.InterestField = def.InterestField
	}
	if d.Source == "" {
		d.Source = def.Source
	}
	if d.AssignedTo == "" {
		d.AssignedTo = def.AssignedTo
	}
	return d
}

func (d LeadDraft) toLead(now time.Time) entity.Lead {
	return entity.Lead{
		Name:          strings.TrimSpace(d.Name),
		Contact:       d.Phone,
		AltPhone:      d.AltPhone,
		Email:         strings.TrimSpace(d.Email),
		AltEmail:      strings.TrimSpace(d.AltEmail),
		Status:        entity.Status(d.Status),
		Qualification: entity.Qualification(d.Qualification),
		Interest:      d.InterestField,
		Source:        entity.Source(d.Source),
		AssignedTo:    d.AssignedTo,
		JobInterest:   d.JobInterest,
		State:         d.State,
		City:          d.City,
		PassoutYear:   strings.TrimSpace(d.PassoutYear),
		HeardFrom:     d.HeardFrom,
		UpdatedAt:     now.UTC(),
	}
}

// LeadWriter é o destino de um cadastro.
type LeadWriter interface {
	Target() string
	SaveLead(ctx context.Context, lead entity.Lead) (*entity.Lead, error)
}

type localWriter struct{ cache LeadCache }

func NewLocalWriter(cache LeadCache) LeadWriter { return &localWriter{cache: cache} }

func (w *localWriter) Target() string { return SourceLocal }

func (w *localWriter) SaveLead(ctx context.Context, lead entity.Lead) (*entity.Lead, error) {
	if err := w.cache.AppendLead(ctx, lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

type remoteWriter struct{ remote RemoteLeadStore }

func NewRemoteWriter(remote RemoteLeadStore) LeadWriter { return &remoteWriter{remote: remote} }

func (w *remoteWriter) Target() string { return SourceRemote }

func (w *remoteWriter) SaveLead(ctx context.Context, lead entity.Lead) (*entity.Lead, error) {
	return w.remote.InsertLead(ctx, lead)
}

type SubmitOutput struct {
	Lead       entity.Lead `json:"lead"`
	NavigateTo string      `json:"navigateTo"`
}

// LeadForm guarda o rascunho do formulário e faz o cadastro.
type LeadForm struct {
	writer LeadWriter
	events LeadEventPublisher
	now    func() time.Time
	log    *logrus.Entry

	mu    sync.Mutex
	draft LeadDraft
}

// NewLeadForm cria um formulário com o rascunho padrão. events pode ser nil.
func NewLeadForm(writer LeadWriter, events LeadEventPublisher) *LeadForm {
	return &LeadForm{
		writer: writer,
		events: events,
		now:    time.Now,
		log:    logger.For("lead_form"),
		draft:  DefaultDraft(),
	}
}

func (f *LeadForm) Draft() LeadDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Apply substitui o rascunho inteiro.
func (f *LeadForm) Apply(d LeadDraft) {
	f.mu.Lock()
	f.draft = d
	f.mu.Unlock()
}

func (f *LeadForm) Reset() {
	f.Apply(DefaultDraft())
}

// Set altera um campo pelo nome JSON.
func (f *LeadForm) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := &f.draft
	switch field {
	case "name":
		d.Name = value
	case "phone":
		d.Phone = value
	case "altPhone":
		d.AltPhone = value
	case "email":
		d.Email = value
	case "altEmail":
		d.AltEmail = value
	case "status":
		d.Status = value
	case "qualification":
		d.Qualification = value
	case "interestField":
		d.InterestField = value
	case "source":
		d.Source = value
	case "assignedTo":
		d.AssignedTo = value
	case "jobInterest":
		d.JobInterest = value
	case "state":
		d.State = value
	case "city":
		d.City = value
	case "passoutYear":
		d.PassoutYear = value
	case "heardFrom":
		d.HeardFrom = value
	default:
		return &DomainError{Code: "UNKNOWN_FIELD", Message: "unknown form field: " + field}
	}
	return nil
}

// Submit valida e grava o rascunho. Em caso de erro o rascunho fica como estava.
func (f *LeadForm) Submit(ctx context.Context) (*SubmitOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if errs := ValidateLeadDraft(f.draft); len(errs) > 0 {
		return nil, errs
	}

	lead, err := entity.NewLead(f.draft.toLead(f.now()))
	if err != nil {
		return nil, err
	}

	saved, err := f.writer.SaveLead(ctx, *lead)
	if err != nil {
		f.log.WithError(err).WithField("target", f.writer.Target()).Error("❌ Falha ao salvar lead")
		return nil, err
	}

	metrics.RecordLeadCreated(f.writer.Target())
	f.log.WithFields(logrus.Fields{"target": f.writer.Target(), "name": saved.Name}).Info("✅ Lead cadastrado")
	f.draft = DefaultDraft()

	if f.events != nil {
		if err := f.events.PublishLeadCreated(ctx, *saved); err != nil {
			// O lead já está salvo: a falha no evento não desfaz o cadastro.
			metrics.RecordEventError("publish")
			f.log.WithError(err).Warn("⚠️ Falha ao publicar lead.created")
		}
	}

	return &SubmitOutput{Lead: *saved, NavigateTo: ScreenLeads}, nil
}
