package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

const table = "leads"

type Options struct {
	BaseURL      string
	APIKey       string
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration
}

// Client fala com a tabela leads via PostgREST (Supabase).
// Falhas de rede, 429 e 5xx são repetidas com backoff exponencial até RetryMax.
type Client struct {
	baseURL string
	apiKey  string
	http    *retryablehttp.Client
	log     *logrus.Entry
}

func NewClient(opts Options) *Client {
	log := logger.For("supabase")

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = retryLogger{entry: log}
	retryClient.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = opts.RetryWaitMax
	}
	retryClient.HTTPClient.Timeout = 10 * time.Second
	if opts.Timeout > 0 {
		retryClient.HTTPClient.Timeout = opts.Timeout
	}

	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		http:    retryClient,
		log:     log,
	}
}

func (c *Client) QueryLeads(ctx context.Context, status *entity.Status) ([]entity.Lead, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "updated_at.desc")
	if status != nil {
		q.Set("status", "eq."+string(*status))
	}

	body, err := c.do(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "query", Err: err}
	}

	leads, err := parseLeads(body)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "query", Err: err}
	}
	return leads, nil
}

// FindStaleByStatus devolve leads com o status dado e updated_at anterior a olderThan.
func (c *Client) FindStaleByStatus(ctx context.Context, status entity.Status, olderThan time.Time) ([]entity.Lead, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "updated_at.asc")
	q.Set("status", "eq."+string(status))
	q.Set("updated_at", "lt."+olderThan.UTC().Format(time.RFC3339Nano))

	body, err := c.do(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "find stale", Err: err}
	}

	leads, err := parseLeads(body)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "find stale", Err: err}
	}
	return leads, nil
}

func (c *Client) InsertLead(ctx context.Context, lead entity.Lead) (*entity.Lead, error) {
	lead.ID = uuid.New().String()

	payload, err := json.Marshal(toRow(lead))
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "insert", Err: err}
	}

	body, err := c.do(ctx, http.MethodPost, nil, payload)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "insert", Err: err}
	}

	saved, err := firstLead(body)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "insert", Err: err}
	}
	if saved == nil {
		return nil, &entity.RemoteQueryError{Op: "insert", Err: fmt.Errorf("empty representation")}
	}

	c.log.WithField("id", saved.ID).Info("✅ Lead criado no Supabase")
	return saved, nil
}

// UpdateStatus lê a linha atual para que o novo updated_at seja sempre maior que o gravado,
// mesmo quando o relógio do servidor está adiantado em relação ao nosso.
func (c *Client) UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)

	current, err := c.findByID(ctx, id)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "update", Err: err}
	}
	if current == nil {
		return nil, entity.ErrLeadNotFound
	}
	current.Touch(time.Now())

	payload, err := json.Marshal(statusPatch{Status: string(status), UpdatedAt: current.UpdatedAt})
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "update", Err: err}
	}

	body, err := c.do(ctx, http.MethodPatch, q, payload)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "update", Err: err}
	}

	lead, err := firstLead(body)
	if err != nil {
		return nil, &entity.RemoteQueryError{Op: "update", Err: err}
	}
	if lead == nil {
		return nil, entity.ErrLeadNotFound
	}
	return lead, nil
}

func (c *Client) findByID(ctx context.Context, id string) (*entity.Lead, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)

	body, err := c.do(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}
	return firstLead(body)
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	body, err := c.do(ctx, http.MethodDelete, q, nil)
	if err != nil {
		return &entity.RemoteQueryError{Op: "delete", Err: err}
	}

	lead, err := firstLead(body)
	if err != nil {
		return &entity.RemoteQueryError{Op: "delete", Err: err}
	}
	if lead == nil {
		return entity.ErrLeadNotFound
	}
	return nil
}

// Ping verifica se o PostgREST responde.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	_, err := c.do(ctx, http.MethodGet, q, nil)
	return err
}

func (c *Client) do(ctx context.Context, method string, query url.Values, payload []byte) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody any
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, table, resp.StatusCode, gjson.GetBytes(body, "message").String())
	}

	return body, nil
}

func (c *Client) addAuthHeaders(req *retryablehttp.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", "return=representation")
}

func parseLeads(body []byte) ([]entity.Lead, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON body")
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("expected JSON array")
	}

	leads := []entity.Lead{}
	for _, row := range result.Array() {
		lead, err := leadFromRow(row)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func firstLead(body []byte) (*entity.Lead, error) {
	leads, err := parseLeads(body)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return &leads[0], nil
}

func leadFromRow(row gjson.Result) (entity.Lead, error) {
	updatedAt, err := time.Parse(time.RFC3339Nano, row.Get("updated_at").String())
	if err != nil {
		return entity.Lead{}, fmt.Errorf("lead %s: updated_at: %w", row.Get("id").String(), err)
	}

	return entity.Lead{
		ID:            row.Get("id").String(),
		Name:          row.Get("name").String(),
		Contact:       row.Get("contact").String(),
		AltPhone:      row.Get("alt_phone").String(),
		Email:         row.Get("email").String(),
		AltEmail:      row.Get("alt_email").String(),
		Status:        entity.Status(row.Get("status").String()),
		Qualification: entity.Qualification(row.Get("qualification").String()),
		Interest:      row.Get("interest").String(),
		Source:        entity.Source(row.Get("source").String()),
		AssignedTo:    row.Get("assigned_to").String(),
		JobInterest:   row.Get("job_interest").String(),
		State:         row.Get("state").String(),
		City:          row.Get("city").String(),
		PassoutYear:   row.Get("passout_year").String(),
		HeardFrom:     row.Get("heard_from").String(),
		UpdatedAt:     updatedAt.UTC(),
	}, nil
}

// retryLogger adapta o logrus ao LeveledLogger do retryablehttp.
type retryLogger struct {
	entry *logrus.Entry
}

func (l retryLogger) fields(keysAndValues []interface{}) *logrus.Entry {
	e := l.entry
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		e = e.WithField(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	return e
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Error(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Warn(msg)
}
