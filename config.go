package ngspec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the .ngspec.yaml configuration file.
type Config struct {
	// Gateway is the nebula-http-gateway used for dry runs and job submission.
	Gateway *GatewayConfig `yaml:"gateway,omitempty"`

	// Connection is written into the job's clientSettings and used to open
	// gateway sessions.
	Connection ConnectionConfig `yaml:"connection"`

	Space   string `yaml:"space" validate:"required"`
	VidType string `yaml:"vidType,omitempty" validate:"omitempty,vid_type"`

	Client ClientConfig `yaml:"client,omitempty"`
}

// GatewayConfig holds the HTTP gateway endpoint.
type GatewayConfig struct {
	URL string `yaml:"url" validate:"required,url"`
}

// ConnectionConfig holds graphd credentials and endpoints.
type ConnectionConfig struct {
	User     string   `yaml:"user" validate:"required"`
	Password string   `yaml:"password,omitempty"`
	Address  []string `yaml:"address" validate:"required,min=1,dive,hostname_port"`
}

// ClientConfig holds import engine tuning. Zero values fall back to defaults.
type ClientConfig struct {
	Retry             int    `yaml:"retry,omitempty" validate:"gte=0"`
	Concurrency       int    `yaml:"concurrency,omitempty" validate:"gte=0"`
	ChannelBufferSize int    `yaml:"channelBufferSize,omitempty" validate:"gte=0"`
	BatchSize         string `yaml:"batchSize,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".ngspec.yaml", ".ngspec.yml", "ngspec.yaml", "ngspec.yml"}

// LoadConfig finds and loads the nearest .ngspec.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SpaceVidType returns the parsed VID type, defaulting to FIXED_STRING(32)
// when none is configured.
func (c *Config) SpaceVidType() VidType {
	if c.VidType == "" {
		return "FIXED_STRING(32)"
	}

	vt, err := ParseVidType(c.VidType)
	if err != nil {
		return VidType(c.VidType)
	}

	return vt
}

// Validate checks the config after flags and environment overrides are applied.
func (c *Config) Validate() error {
	validate := newConfigValidator()

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", trimNamespace(e.Namespace()), e.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func newConfigValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	_ = validate.RegisterValidation("vid_type", func(fl validator.FieldLevel) bool {
		_, err := ParseVidType(fl.Field().String())
		return err == nil
	})

	// Report YAML key names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return validate
}

// trimNamespace drops the leading struct name, e.g. "Config.connection.user".
func trimNamespace(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return ns
}
