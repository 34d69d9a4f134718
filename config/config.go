package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
)

type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	Provider string        `env:"SUMMARIZER_PROVIDER" envDefault:"huggingface"`
	Timeout  time.Duration `env:"SUMMARIZER_TIMEOUT"  envDefault:"60s"`

	Summary     SummaryConfig
	HuggingFace HuggingFaceConfig `envPrefix:"HF_"`
	OpenAI      OpenAIConfig      `envPrefix:"OPENAI_"`
	Valkey      ValkeyConfig      `envPrefix:"VALKEY_"`
	AWS         AWSConfig         `envPrefix:"AWS_"`
	Kafka       KafkaConfig       `envPrefix:"KAFKA_"`
}

// SummaryConfig holds request shaping limits. Defaults match the length
// sliders of the demo page.
type SummaryConfig struct {
	MinInputChars    int  `env:"SUMMARY_MIN_INPUT_CHARS"   envDefault:"50"`
	DefaultMaxLength int  `env:"SUMMARY_MAX_LENGTH"        envDefault:"130"`
	DefaultMinLength int  `env:"SUMMARY_MIN_LENGTH"        envDefault:"30"`
	MaxLengthFloor   int  `env:"SUMMARY_MAX_LENGTH_FLOOR"  envDefault:"50"`
	MaxLengthCeil    int  `env:"SUMMARY_MAX_LENGTH_CEIL"   envDefault:"300"`
	MinLengthFloor   int  `env:"SUMMARY_MIN_LENGTH_FLOOR"  envDefault:"10"`
	MinLengthCeil    int  `env:"SUMMARY_MIN_LENGTH_CEIL"   envDefault:"100"`
	SentimentEnabled bool `env:"SUMMARY_SENTIMENT_ENABLED" envDefault:"false"`
}

type HuggingFaceConfig struct {
	Endpoint string `env:"SUMMARY_ENDPOINT" envDefault:"https://api-inference.huggingface.co/models/facebook/bart-large-cnn"`
	Token    string `env:"API_TOKEN"`
}

type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL"    envDefault:"gpt-4o-mini"`
	BaseURL string `env:"BASE_URL"`
}

type ValkeyConfig struct {
	Enabled     bool          `env:"ENABLED"      envDefault:"false"`
	InitAddress string        `env:"INIT_ADDRESS" envDefault:"localhost:6379"`
	Password    string        `env:"PASSWORD"`
	TLS         bool          `env:"TLS"          envDefault:"false"`
	TTL         time.Duration `env:"TTL"          envDefault:"24h"`
}

type AWSConfig struct {
	Endpoint     string `env:"ENDPOINT"`
	Region       string `env:"REGION"        envDefault:"us-west-2"`
	ResultsTable string `env:"RESULTS_TABLE"`
}

type KafkaConfig struct {
	Broker       string `env:"BROKER"            envDefault:"localhost:29092"`
	GroupID      string `env:"CONSUMER_GROUP_ID" envDefault:"textsummarizer-worker"`
	RequestTopic string `env:"REQUEST_TOPIC"     envDefault:"summary-request"`
	ResultTopic  string `env:"RESULT_TOPIC"      envDefault:"summary-results"`
	// InstanceID must be unique per worker replica. Empty means hostname.
	InstanceID string `env:"INSTANCE_ID"`
}

// Load reads the env file for APP_ENV and parses the process environment.
func Load() (Config, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	LoadEnv(appEnv)

	return Parse()
}

// Parse builds a Config from the current process environment only.
func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderHuggingFace:
		if c.HuggingFace.Endpoint == "" {
			errs = append(errs, errors.New("HF_SUMMARY_ENDPOINT is required for the huggingface provider"))
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SUMMARIZER_PROVIDER %q", c.Provider))
	}

	s := c.Summary
	if s.MinInputChars < 0 {
		errs = append(errs, errors.New("SUMMARY_MIN_INPUT_CHARS must not be negative"))
	}
	if s.MaxLengthFloor > s.MaxLengthCeil {
		errs = append(errs, errors.New("max length floor exceeds ceiling"))
	}
	if s.MinLengthFloor > s.MinLengthCeil {
		errs = append(errs, errors.New("min length floor exceeds ceiling"))
	}
	if s.DefaultMaxLength < s.MaxLengthFloor || s.DefaultMaxLength > s.MaxLengthCeil {
		errs = append(errs, fmt.Errorf("SUMMARY_MAX_LENGTH %d is outside [%d, %d]",
			s.DefaultMaxLength, s.MaxLengthFloor, s.MaxLengthCeil))
	}
	if s.DefaultMinLength < s.MinLengthFloor || s.DefaultMinLength > s.MinLengthCeil {
		errs = append(errs, fmt.Errorf("SUMMARY_MIN_LENGTH %d is outside [%d, %d]",
			s.DefaultMinLength, s.MinLengthFloor, s.MinLengthCeil))
	}
	if s.DefaultMinLength >= s.DefaultMaxLength {
		errs = append(errs, errors.New("SUMMARY_MIN_LENGTH must be lower than SUMMARY_MAX_LENGTH"))
	}

	if c.Timeout < 0 {
		errs = append(errs, errors.New("SUMMARIZER_TIMEOUT must not be negative"))
	}

	if c.Valkey.Enabled && c.Valkey.TTL < time.Second {
		errs = append(errs, fmt.Errorf("VALKEY_TTL %s must be at least 1s", c.Valkey.TTL))
	}

	return errors.Join(errs...)
}
