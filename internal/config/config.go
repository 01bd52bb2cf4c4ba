// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SearchConfig struct {
	Sites           []string `yaml:"sites"`
	DefaultKeywords string   `yaml:"default_keywords"`
	PageCap         int      `yaml:"page_cap"`
	DelayMinMs      int      `yaml:"delay_min_ms"`
	DelayMaxMs      int      `yaml:"delay_max_ms"`
	DefaultLocation string   `yaml:"default_location"`
	Cron            string   `yaml:"cron"`
	UseBrowser      bool     `yaml:"use_browser"`
}

type SMTPConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
}

type SummarizerConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type TemplateConfig struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

type AttachmentConfig struct {
	CV          string `yaml:"cv"`
	CoverLetter string `yaml:"cover_letter"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type Config struct {
	DatabaseURL string           `yaml:"database_url"`
	ListenAddr  string           `yaml:"listen_addr"`
	CVPath      string           `yaml:"cv_path"`
	CachePath   string           `yaml:"cache_path"`
	CookiesPath string           `yaml:"cookies_path"`
	Search      SearchConfig     `yaml:"search"`
	SMTP        SMTPConfig       `yaml:"smtp"`
	Summarizer  SummarizerConfig `yaml:"summarizer"`
	Templates   TemplateConfig   `yaml:"templates"`
	Attachments AttachmentConfig `yaml:"attachments"`
	Telegram    TelegramConfig   `yaml:"telegram"`
}

const DefaultSubjectTemplate = "Application for {job_title} Position at {company_name}"

const defaultBodyTemplate = `Dear Hiring Manager,

I am writing to express my strong interest in the {job_title} position at {company_name}. I am confident that my technical expertise and proven track record make me an ideal candidate for this role.
{experience}
I am particularly excited about the opportunity to contribute to {company_name}'s continued success and would welcome the chance to discuss how my skills and experience align with your needs.

Please find my resume attached for your review. I look forward to hearing from you soon.

Best regards`

// AllSites lists the supported job sources in search order.
var AllSites = []string{
	"Indeed", "Glassdoor", "CareerBuilder", "Google Jobs",
	"BrighterMonday", "Remote OK", "We Work Remotely",
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			log.Fatalf("Invalid SMTP_PORT: %v", err)
		}
		cfg.SMTP.Port = p
	}
	if email := os.Getenv("SMTP_EMAIL"); email != "" {
		cfg.SMTP.Email = email
	}
	if pass := os.Getenv("SMTP_PASSWORD"); pass != "" {
		cfg.SMTP.Password = pass
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.Summarizer.APIKey = key
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.Telegram.ChatID = id
	}

	//Set default values if not set
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}
	if len(cfg.Search.Sites) == 0 {
		cfg.Search.Sites = AllSites
	}
	if cfg.Search.PageCap <= 0 {
		cfg.Search.PageCap = 3
	}
	if cfg.Search.DelayMinMs <= 0 {
		cfg.Search.DelayMinMs = 2000
	}
	if cfg.Search.DelayMaxMs < cfg.Search.DelayMinMs {
		cfg.Search.DelayMaxMs = cfg.Search.DelayMinMs + 2000
	}
	if cfg.Search.DefaultLocation == "" {
		cfg.Search.DefaultLocation = "Kenya"
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Templates.Subject == "" {
		cfg.Templates.Subject = DefaultSubjectTemplate
	}
	if cfg.Templates.Body == "" {
		cfg.Templates.Body = defaultBodyTemplate
	}

	//Validate required fields
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return cfg
}
