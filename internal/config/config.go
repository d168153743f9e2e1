package config

import (
	"os"
	"strings"

	"nl2sqleval/internal/runinfo"

	"gopkg.in/yaml.v3"
)

// Config captures all runtime options for a batch evaluation.
type Config struct {
	DSN                string             `yaml:"dsn"`
	Database           string             `yaml:"database"`
	Workers            int                `yaml:"workers"`
	StatementTimeoutMs int                `yaml:"statement_timeout_ms"`
	MaxResultRows      int                `yaml:"max_result_rows"`
	ExpectedFile       string             `yaml:"expected_file"`
	GeneratedFile      string             `yaml:"generated_file"`
	ReportDir          string             `yaml:"report_dir"`
	Compare            CompareConfig      `yaml:"compare"`
	Logging            Logging            `yaml:"logging"`
	Storage            StorageConfig      `yaml:"storage"`
	RunInfo            *runinfo.BasicInfo `yaml:"-"`
}

// CompareConfig controls result comparison semantics.
type CompareConfig struct {
	IgnoreRowOrder    bool `yaml:"ignore_row_order"`
	IgnoreColumnOrder bool `yaml:"ignore_column_order"`
	ValidateSyntax    bool `yaml:"validate_syntax"`
	CompareResults    bool `yaml:"compare_results"`
}

// Logging controls stdout logging behavior.
type Logging struct {
	Verbose bool   `yaml:"verbose"`
	LogFile string `yaml:"log_file"`
}

// StorageConfig holds external storage settings for report uploads.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (legacy and S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	normalizeConfig(&cfg)
	cfg.RunInfo = runinfo.FromEnv()
	return cfg, nil
}

// Default returns the built-in configuration, normalized.
func Default() Config {
	cfg := defaultConfig()
	normalizeConfig(&cfg)
	cfg.RunInfo = runinfo.FromEnv()
	return cfg
}

func defaultConfig() Config {
	return Config{
		DSN:                "root:@tcp(127.0.0.1:3306)/",
		Workers:            1,
		StatementTimeoutMs: 15000,
		MaxResultRows:      10000,
		ReportDir:          "reports",
		Compare: CompareConfig{
			IgnoreRowOrder:    true,
			IgnoreColumnOrder: true,
		},
	}
}

func normalizeConfig(cfg *Config) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.StatementTimeoutMs < 0 {
		cfg.StatementTimeoutMs = 0
	}
	if cfg.MaxResultRows < 0 {
		cfg.MaxResultRows = 0
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "reports"
	}
	if cfg.Database != "" {
		cfg.DSN = ensureDatabaseInDSN(cfg.DSN, cfg.Database)
	}
}

func ensureDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
	}
	afterSlash := dsn[slash+1:]
	if query >= 0 {
		afterSlash = dsn[slash+1 : query]
	}
	if strings.TrimSpace(afterSlash) != "" {
		return dsn
	}
	if query >= 0 {
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn + dbName
}

// UpdateDatabaseInDSN replaces the database name in the DSN path with dbName.
// It preserves query parameters, if any.
func UpdateDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn[:slash+1] + dbName
}

// AdminDSN strips the database name from a DSN while preserving query parameters.
func AdminDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dsn[query:]
	}
	return dsn[:slash+1]
}
