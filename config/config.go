package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath = "."

	defaultVerificationTokenTTL = 10 * time.Minute
	defaultResendCooldown       = 5 * time.Minute
	defaultSessionTokenTTL      = 15 * time.Minute
	defaultBaseURL              = "http://localhost:8080"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Session string `json:"session" yaml:"session"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// Verification configuration for the account verification lifecycle
	Verification *VerificationConfig `json:"verification" yaml:"verification"`

	// Mail configuration for the SMTP verification mail sender
	Mail *MailConfig `json:"mail" yaml:"mail"`

	// PubSub configuration for verification event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// TestRoutes configuration for testing endpoints
	TestRoutes *TestRoutesConfig `json:"testRoutes" yaml:"testRoutes"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost      int           `json:"bcryptCost" yaml:"bcryptCost"`
	SessionTokenTTL time.Duration `json:"sessionTokenTtl" yaml:"sessionTokenTtl"`
}

// VerificationConfig defines the timing windows of the verification lifecycle
// and the base URL embedded in verification links.
type VerificationConfig struct {
	// TokenTTL bounds the redemption window of a verification token
	TokenTTL time.Duration `json:"tokenTtl" yaml:"tokenTtl"`

	// ResendCooldown throttles how often a verification mail may be re-requested
	ResendCooldown time.Duration `json:"resendCooldown" yaml:"resendCooldown"`

	// BaseURL is the externally reachable origin used to render verification links
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
}

// MailConfig defines SMTP settings for the verification mail sender
type MailConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	From     string `json:"from" yaml:"from"`
	Password string `json:"password" yaml:"password"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "direct" for in-process delivery, "local" for local HTTP push,
	// "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// TestRoutesConfig defines configuration for testing endpoints
type TestRoutesConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: VERIFICATION_RESENDCOOLDOWN -> verification.resendCooldown
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults fills in the timing windows and base URL when the config file
// leaves them unset, so a minimal config still yields a working service.
func (cfg *Config) applyDefaults() {
	if cfg.Verification == nil {
		cfg.Verification = &VerificationConfig{}
	}
	if cfg.Verification.TokenTTL <= 0 {
		cfg.Verification.TokenTTL = defaultVerificationTokenTTL
	}
	if cfg.Verification.ResendCooldown <= 0 {
		cfg.Verification.ResendCooldown = defaultResendCooldown
	}
	if strings.TrimSpace(cfg.Verification.BaseURL) == "" {
		cfg.Verification.BaseURL = defaultBaseURL
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.SessionTokenTTL <= 0 {
		cfg.Auth.SessionTokenTTL = defaultSessionTokenTTL
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
