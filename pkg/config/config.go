package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/consts"
	"github.com/pseudomuto/sqlmigrate/pkg/utils"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type (
	// Database describes the connection migrations are applied through.
	Database struct {
		// Driver is one of postgres, pgx, mysql, sqlite or clickhouse
		Driver string `yaml:"driver" validate:"omitempty,oneof=postgres pgx mysql sqlite clickhouse"`

		// DSN is handed to the driver as is
		DSN string `yaml:"dsn" validate:"required_with=Driver"`

		// Debug logs every statement sent to the database
		Debug bool `yaml:"debug,omitempty"`

		// TLS configures client certificates for the clickhouse driver
		TLS TLS `yaml:"tls,omitempty"`
	}

	// TLS lists PEM files used to connect to ClickHouse over mTLS.
	TLS struct {
		CAFile   string `yaml:"ca_file,omitempty" validate:"omitempty,file"`
		CertFile string `yaml:"cert_file,omitempty" validate:"omitempty,file"`
		KeyFile  string `yaml:"key_file,omitempty" validate:"omitempty,file"`
	}

	// Migrations controls where migrations are read from and how history is recorded.
	Migrations struct {
		// Schema qualifies the history table and selects Folder/<schema>. An explicit empty value
		// disables both.
		Schema *string `yaml:"schema"`

		// Table is the history table
		Table string `yaml:"table" validate:"required"`

		// Folder holds the migrations
		Folder string `yaml:"folder" validate:"required"`

		// UseVersioning skips runs whose Version is already recorded
		UseVersioning bool `yaml:"use_versioning,omitempty"`

		// Version is recorded after every versioned run
		Version string `yaml:"version,omitempty"`

		// Now is the SQL expression recorded as created_at. Defaults to the database's clock.
		Now string `yaml:"now,omitempty"`
	}

	// Parameters configures the template parameters substituted into migrations. Later sources
	// win: values, then environment variables, then the query.
	Parameters struct {
		Values    map[string]string `yaml:"values,omitempty"`
		EnvPrefix string            `yaml:"env_prefix,omitempty"`

		// Query returns key and value columns from the target database. It is not used by check.
		Query string `yaml:"query,omitempty"`
	}

	// Check configures the check command.
	Check struct {
		// Dialect selects the parser used to validate migrations
		Dialect string `yaml:"dialect" validate:"oneof=none generic postgres mysql sqlite clickhouse"`
	}

	// Config is the sqlmigrate configuration, normally read from sqlmigrate.yaml.
	Config struct {
		Database   Database   `yaml:"database"`
		Migrations Migrations `yaml:"migrations"`
		Parameters Parameters `yaml:"parameters,omitempty"`
		Check      Check      `yaml:"check"`
	}
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig parses and validates a configuration from r, filling in defaults for anything left
// unset. An empty document is the default configuration.
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader(`
//	database:
//	  driver: postgres
//	  dsn: postgres://localhost:5432/app?sslmode=disable
//	migrations:
//	  schema: app
//	`))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(cfg.Migrations.Folder) // ./migrations
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfigFile loads the configuration at path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// Validate checks every field, reporting all failures at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "invalid config")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag()))
	}

	return errors.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SchemaName returns the configured schema, empty when schema handling is disabled.
func (m Migrations) SchemaName() string {
	return utils.Deref(m.Schema)
}

func (c *Config) applyDefaults() {
	if c.Migrations.Schema == nil {
		c.Migrations.Schema = utils.Ptr(consts.DefaultSchema)
	}

	if c.Migrations.Table == "" {
		c.Migrations.Table = consts.DefaultTable
	}

	if c.Migrations.Folder == "" {
		c.Migrations.Folder = consts.DefaultFolder
	}

	if c.Check.Dialect == "" {
		c.Check.Dialect = consts.DefaultDialect
	}
}
