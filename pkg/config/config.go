package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "GERAI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Sequence SequenceConfig
	Company  CompanyConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GERAI_APP_ENV" default:"dev"`
	Port         string `envconfig:"GERAI_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GERAI_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"GERAI_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"GERAI_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"GERAI_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"GERAI_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"GERAI_DB_DSN"`

	// SQLitePath is the on-disk database for single-operator installs, the
	// same file layout the desktop edition used.
	SQLitePath string `envconfig:"GERAI_DB_SQLITE_PATH" default:"data/gerai.db"`

	Host     string `envconfig:"GERAI_DB_HOST"`
	Port     int    `envconfig:"GERAI_DB_PORT" default:"5432"`
	User     string `envconfig:"GERAI_DB_USER"`
	Password string `envconfig:"GERAI_DB_PASSWORD"`
	Name     string `envconfig:"GERAI_DB_NAME"`
	SSLMode  string `envconfig:"GERAI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GERAI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GERAI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GERAI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GERAI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type SequenceConfig struct {
	OrderPrefix   string `envconfig:"GERAI_ORDER_PREFIX" default:"ORD"`
	InvoicePrefix string `envconfig:"GERAI_INVOICE_PREFIX" default:"INV"`
}

type CompanyConfig struct {
	Name       string  `envconfig:"GERAI_COMPANY_NAME" default:"Your Company Name"`
	Currency   string  `envconfig:"GERAI_CURRENCY" default:"IDR"`
	TaxPercent float64 `envconfig:"GERAI_TAX_PERCENT" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GERAI_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.IsSQLite() {
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"GERAI_DB_HOST": db.Host,
		"GERAI_DB_USER": db.User,
		"GERAI_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either GERAI_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
