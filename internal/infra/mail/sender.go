package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

const defaultFrom = "nao-responda@ligue.com"

var templates = template.Must(template.New(queue.EventLeadCreated).Parse(`<p>Olá, {{.AssigneeName}}!</p>
<p>Um novo lead foi atribuído a você:</p>
<ul>
<li><b>Nome:</b> {{.LeadName}}</li>
<li><b>Contato:</b> {{.Contact}}</li>
{{if .Email}}<li><b>Email:</b> {{.Email}}</li>
{{end}}<li><b>Interesse:</b> {{.Interest}}</li>
<li><b>Origem:</b> {{.Source}}</li>
</ul>`))

func init() {
	template.Must(templates.New(queue.EventLeadFollowUpDue).Parse(`<p>Olá, {{.AssigneeName}}!</p>
<p>O lead <b>{{.LeadName}}</b> está em {{.Status}} sem atualização desde {{.UpdatedAt}}.</p>
<p>Contato: {{.Contact}}</p>`))
}

var subjects = map[string]string{
	queue.EventLeadCreated:     "Novo lead atribuído: %s",
	queue.EventLeadFollowUpDue: "Follow-up pendente: %s",
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = defaultFrom
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func renderLeadBody(eventType string, data LeadEmailData) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, eventType, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

// BuildLeadMessage monta o email de um evento de lead para o responsável.
func (s *EmailSender) BuildLeadMessage(to, assignee, eventType string, lead entity.Lead) (*gomail.Message, error) {
	subject, ok := subjects[eventType]
	if !ok {
		return nil, fmt.Errorf("tipo de evento sem template: %s", eventType)
	}

	body, err := renderLeadBody(eventType, LeadEmailData{
		AssigneeName: assignee,
		LeadName:     lead.Name,
		Contact:      lead.Contact,
		Email:        lead.Email,
		Status:       string(lead.Status),
		Interest:     lead.Interest,
		Source:       string(lead.Source),
		UpdatedAt:    lead.UpdatedAt.Format("02/01/2006 15:04"),
	})
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf(subject, lead.Name))
	m.SetBody("text/html", body)
	return m, nil
}

func (s *EmailSender) Send(m *gomail.Message) error {
	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

type messageSender interface {
	BuildLeadMessage(to, assignee, eventType string, lead entity.Lead) (*gomail.Message, error)
	Send(m *gomail.Message) error
}

// AssigneeNotifier avisa o responsável pelo lead. Implementa queue.LeadEventHandler.
type AssigneeNotifier struct {
	sender messageSender
	emails map[string]string
	log    *logrus.Entry
}

func NewAssigneeNotifier(sender *EmailSender, emails map[string]string) *AssigneeNotifier {
	return &AssigneeNotifier{
		sender: sender,
		emails: emails,
		log:    logger.For("mail"),
	}
}

// HandleLeadEvent ignora responsáveis sem email cadastrado.
func (n *AssigneeNotifier) HandleLeadEvent(_ context.Context, event queue.LeadEvent) error {
	assignee := event.Lead.AssignedTo
	to, ok := n.emails[assignee]
	if !ok || to == "" {
		n.log.WithField("assignee", assignee).Debug("Responsável sem email, ignorando evento")
		return nil
	}

	m, err := n.sender.BuildLeadMessage(to, assignee, event.Type, event.Lead)
	if err != nil {
		return err
	}
	if err := n.sender.Send(m); err != nil {
		return err
	}

	n.log.WithFields(logrus.Fields{"type": event.Type, "to": to}).Info("📧 Email enviado")
	return nil
}
