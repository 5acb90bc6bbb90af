package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "Europe/Paris"
	defaultDateLayout = "02/01/2006"
	configPathEnv     = "AUTOLEADS_CONFIG"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Kommo    KommoConfig    `yaml:"kommo"`
	Mail     MailConfig     `yaml:"mail"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	Export   ExportConfig   `yaml:"export"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	// requisições de análise por minuto, por IP
	RateLimit int `yaml:"rateLimit"`
}

type StoreConfig struct {
	Driver        string `yaml:"driver"`
	DataDir       string `yaml:"dataDir"`
	PostgresDSN   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDb"`
	RedisPrefix   string `yaml:"redisPrefix"`
	MongoURI      string `yaml:"mongoUri"`
	MongoDatabase string `yaml:"mongoDatabase"`
}

type GeminiConfig struct {
	APIKey  string        `yaml:"apiKey"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

type KommoConfig struct {
	APIToken string `yaml:"apiToken"`
	BaseURL  string `yaml:"baseUrl"`
	StatusID int    `yaml:"statusId"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type WhatsAppConfig struct {
	AccessToken   string `yaml:"accessToken"`
	PhoneNumberID string `yaml:"phoneNumberId"`
	BaseURL       string `yaml:"baseUrl"`
}

type ExportConfig struct {
	DateLayout string         `yaml:"dateLayout"`
	Timezone   string         `yaml:"timezone"`
	location   *time.Location `yaml:"-"`
}

// Location devolve o fuso das datas do CSV.
func (e ExportConfig) Location() *time.Location {
	if e.location != nil {
		return e.location
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load aplica, nessa ordem: defaults, YAML (AUTOLEADS_CONFIG), .env e variáveis de ambiente.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ config: .env ignorado: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("⚠️ config: não foi possível ler %s: %v (usando defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("⚠️ config: YAML inválido em %s: %v (usando defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Server.Addr, "ADDR")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	setInt(&c.Server.RateLimit, "RATE_LIMIT")

	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Store.DataDir, "DATA_DIR")
	setString(&c.Store.PostgresDSN, "DATABASE_URL")
	setString(&c.Store.RedisAddr, "REDIS_ADDR")
	setString(&c.Store.RedisPassword, "REDIS_PASSWORD")
	setInt(&c.Store.RedisDB, "REDIS_DB")
	setString(&c.Store.MongoURI, "MONGO_URI")
	setString(&c.Store.MongoDatabase, "MONGO_DATABASE")

	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Gemini.BaseURL, "GEMINI_BASE_URL")
	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Gemini.Timeout = d
		} else {
			log.Printf("⚠️ config: GEMINI_TIMEOUT inválido: %s", v)
		}
	}

	setString(&c.RabbitMQ.URL, "RABBITMQ_URL")

	setString(&c.Kommo.APIToken, "KOMMO_API_TOKEN")
	setString(&c.Kommo.BaseURL, "KOMMO_BASE_URL")
	setInt(&c.Kommo.StatusID, "KOMMO_STATUS_ID")

	setString(&c.Mail.Host, "MAIL_HOST")
	setInt(&c.Mail.Port, "MAIL_PORT")
	setString(&c.Mail.User, "MAIL_USER")
	setString(&c.Mail.Password, "MAIL_PASS")
	setString(&c.Mail.From, "MAIL_FROM")

	setString(&c.WhatsApp.AccessToken, "WHATSAPP_ACCESS_TOKEN")
	setString(&c.WhatsApp.PhoneNumberID, "WHATSAPP_PHONE_NUMBER_ID")
	setString(&c.WhatsApp.BaseURL, "WHATSAPP_BASE_URL")

	setString(&c.Export.DateLayout, "EXPORT_DATE_LAYOUT")
	setString(&c.Export.Timezone, "TIMEZONE")
}

func (c *Config) bindTimezone() {
	tz := c.Export.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("⚠️ config: fuso desconhecido %s, usando UTC", tz)
		loc = time.UTC
	}
	c.Export.location = loc
	if c.Export.DateLayout == "" {
		c.Export.DateLayout = defaultDateLayout
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ config: %s não é número: %s", env, v)
		return
	}
	*dst = n
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RateLimit:      20,
		},
		Store: StoreConfig{
			Driver:        "file",
			DataDir:       "data",
			RedisAddr:     "localhost:6379",
			RedisPrefix:   "autoleads:",
			MongoDatabase: "autoleads",
		},
		Gemini: GeminiConfig{
			Model:   "gemini-3-flash-preview",
			Timeout: 60 * time.Second,
		},
		Mail: MailConfig{Port: 587},
		Export: ExportConfig{
			DateLayout: defaultDateLayout,
			Timezone:   defaultTimezone,
		},
	}
}
