package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	BackendNone     = "none"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"

	SourceLocal  = "local"
	SourceRemote = "remote"
)

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type Config struct {
	HTTPPort    string
	LogLevel    string
	LocalDBPath string

	RemoteBackend      string
	DatabaseURL        string
	SupabaseURL        string
	SupabaseKey        string
	RemoteRetryMax     int
	RemoteRetryWaitMax time.Duration

	// Ordem das fontes na lista: "local" antes de "remote".
	Sources    []string
	FormTarget string

	RabbitMQURL    string
	Mail           MailConfig
	AssigneeEmails map[string]string

	FollowUpAfter    time.Duration
	FollowUpInterval time.Duration
	RateLimitPerMin  int
}

// Load lê o .env (se existir), o arquivo de config opcional e as variáveis de ambiente.
// Um cfgFile vazio procura $HOME/.ligue-crm.yaml.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".ligue-crm")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			return nil, fmt.Errorf("erro ao ler config %s: %w", cfgFile, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("local_db_path", "")
	v.SetDefault("remote_backend", "")
	v.SetDefault("database_url", "")
	v.SetDefault("supabase_url", "")
	v.SetDefault("supabase_key", "")
	v.SetDefault("remote_retry_max", 3)
	v.SetDefault("remote_retry_wait_max", "10s")
	v.SetDefault("leads_sources", "local,remote")
	v.SetDefault("leads_form_target", SourceLocal)
	v.SetDefault("rabbitmq_url", "")
	v.SetDefault("mail_host", "")
	v.SetDefault("mail_port", 587)
	v.SetDefault("mail_user", "")
	v.SetDefault("mail_pass", "")
	v.SetDefault("mail_from", "nao-responda@liguemedicina.com")
	v.SetDefault("assignee_emails", "")
	v.SetDefault("followup_after", "72h")
	v.SetDefault("followup_interval", "1h")
	v.SetDefault("rate_limit_per_min", 10)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPPort:           v.GetString("http_port"),
		LogLevel:           v.GetString("log_level"),
		DatabaseURL:        v.GetString("database_url"),
		SupabaseURL:        strings.TrimRight(v.GetString("supabase_url"), "/"),
		SupabaseKey:        v.GetString("supabase_key"),
		RemoteRetryMax:     v.GetInt("remote_retry_max"),
		RemoteRetryWaitMax: v.GetDuration("remote_retry_wait_max"),
		FormTarget:         strings.ToLower(strings.TrimSpace(v.GetString("leads_form_target"))),
		RabbitMQURL:        v.GetString("rabbitmq_url"),
		Mail: MailConfig{
			Host:     v.GetString("mail_host"),
			Port:     v.GetInt("mail_port"),
			User:     v.GetString("mail_user"),
			Password: v.GetString("mail_pass"),
			From:     v.GetString("mail_from"),
		},
		FollowUpAfter:    v.GetDuration("followup_after"),
		FollowUpInterval: v.GetDuration("followup_interval"),
		RateLimitPerMin:  v.GetInt("rate_limit_per_min"),
	}

	dbPath := v.GetString("local_db_path")
	if dbPath == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("erro ao resolver home: %w", err)
		}
		dbPath = filepath.Join(home, ".ligue-crm", "leads.sqlite")
	}
	cfg.LocalDBPath = dbPath

	cfg.RemoteBackend = resolveBackend(v.GetString("remote_backend"), cfg.DatabaseURL, cfg.SupabaseURL)
	if cfg.RemoteBackend == "" {
		return nil, fmt.Errorf("remote_backend inválido: %q", v.GetString("remote_backend"))
	}

	sources, err := ParseSources(v.GetString("leads_sources"))
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources

	if cfg.FormTarget != SourceLocal && cfg.FormTarget != SourceRemote {
		return nil, fmt.Errorf("leads_form_target inválido: %q", cfg.FormTarget)
	}

	cfg.AssigneeEmails = ParseAssignees(v.GetString("assignee_emails"))
	return cfg, nil
}

// resolveBackend: vazio escolhe pelo que estiver configurado (supabase > postgres > none).
func resolveBackend(raw, databaseURL, supabaseURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		if supabaseURL != "" {
			return BackendSupabase
		}
		if databaseURL != "" {
			return BackendPostgres
		}
		return BackendNone
	case BackendNone:
		return BackendNone
	case BackendPostgres:
		return BackendPostgres
	case BackendSupabase:
		return BackendSupabase
	}
	return ""
}

func ParseSources(raw string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		s := strings.ToLower(strings.TrimSpace(part))
		if s == "" || seen[s] {
			continue
		}
		if s != SourceLocal && s != SourceRemote {
			return nil, fmt.Errorf("fonte de leads desconhecida: %q", s)
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, errors.New("leads_sources vazio")
	}
	return out, nil
}

// ParseAssignees lê "John Doe=john@x.com;Jane Smith=jane@x.com".
func ParseAssignees(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		name, email, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, email = strings.TrimSpace(name), strings.TrimSpace(email)
		if name != "" && email != "" {
			out[name] = email
		}
	}
	return out
}

func (c *Config) HasRemote() bool {
	return c.RemoteBackend == BackendPostgres || c.RemoteBackend == BackendSupabase
}
