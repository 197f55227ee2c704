package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"esg_review"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address         string   `envconfig:"ESG_REVIEW_ADDRESS" default:":3443"`
	MetricsAddress  string   `envconfig:"ESG_REVIEW_METRICS_ADDRESS" default:":8080"`
	LogLevel        string   `envconfig:"ESG_REVIEW_LOG_LEVEL" default:"info"`
	LogEncoding     string   `envconfig:"ESG_REVIEW_LOG_ENCODING" default:"console"`
	MigrationFolder string   `envconfig:"ESG_REVIEW_MIGRATIONS_FOLDER" default:""`
	AllowedOrigins  []string `envconfig:"ESG_REVIEW_ALLOWED_ORIGINS" default:"*"`
	MaxUploadBytes  int64    `envconfig:"ESG_REVIEW_MAX_UPLOAD_BYTES" default:"20971520"`
	Classifier      classifierConfig
	S3              s3Config
	Events          eventsConfig
}

type classifierConfig struct {
	URL     string        `envconfig:"ESG_REVIEW_CLASSIFIER_URL" default:"http://localhost:54321/functions/v1/classify-document"`
	APIKey  string        `envconfig:"ESG_REVIEW_CLASSIFIER_API_KEY" default:""`
	Timeout time.Duration `envconfig:"ESG_REVIEW_CLASSIFIER_TIMEOUT" default:"60s"`
}

type s3Config struct {
	Endpoint  string `envconfig:"ESG_REVIEW_S3_ENDPOINT" default:"localhost:9000"`
	Bucket    string `envconfig:"ESG_REVIEW_S3_BUCKET" default:"documents"`
	AccessKey string `envconfig:"ESG_REVIEW_S3_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"ESG_REVIEW_S3_SECRET_KEY" default:""`
	UseSSL    bool   `envconfig:"ESG_REVIEW_S3_USE_SSL" default:"false"`
}

type eventsConfig struct {
	StdoutEnabled bool   `envconfig:"ESG_REVIEW_EVENTS_STDOUT" default:"false"`
	Topic         string `envconfig:"ESG_REVIEW_EVENTS_TOPIC" default:"esg.extraction.events"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a fresh configuration built from the environment and defaults.
// Unlike New it never caches, so tests can mutate the result freely.
func NewDefault() *Config {
	cfg := new(Config)
	_ = envconfig.Process("", cfg)
	return cfg
}
