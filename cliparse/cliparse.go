package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Store backends
const (
	StoreCSV      = "csv"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreREST     = "rest"
)

type Config struct {
	Port int `envconfig:"PORT" default:"3318" validate:"min=1,max=65535"`

	StoreType   string `envconfig:"STORE_TYPE" validate:"oneof=csv postgres sqlite rest"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	CSVPath     string `envconfig:"CSV_PATH" default:"participants.csv" validate:"required_if=StoreType csv"`
	RestURL     string `envconfig:"SUPABASE_URL" validate:"required_if=StoreType rest"`
	RestKey     string `envconfig:"SUPABASE_KEY" validate:"required_if=StoreType rest"`

	AdminSecret string `envconfig:"ADMIN_SECRET_KEY" validate:"required"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"465" validate:"min=1,max=65535"`
	SMTPUser     string `envconfig:"EMAIL_USER"`
	SMTPPassword string `envconfig:"EMAIL_PASSWORD"`
	AdminEmail   string `envconfig:"ADMIN_EMAIL" validate:"omitempty,email"`

	MaxAttempts int `envconfig:"MAX_ATTEMPTS" default:"1000" validate:"min=1"`
	EventYear   int `envconfig:"EVENT_YEAR"`
}

var validate = validator.New()

// ParseFlags reads the environment, then lets flags override it
func ParseFlags(args []string) (Config, error) {
	cfg, err := parse("secret-draw", args, nil)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ParseSyncFlags parses the settings for the roster sync tool and returns
// the CSV file to load (-from, defaulting to the CSV store path). The admin
// secret is not needed there.
func ParseSyncFlags(args []string) (Config, string, error) {
	var from string
	cfg, err := parse("secret-draw-sync", args, func(fs *flag.FlagSet) {
		fs.StringVar(&from, "from", "", "Roster CSV to load (default: the CSV store path)")
	})
	if err != nil {
		return Config{}, "", err
	}

	if from == "" {
		from = cfg.CSVPath
	}
	if from == "" {
		return Config{}, "", errors.New("roster file required (use -from)")
	}

	if err := validate.StructExcept(cfg, "AdminSecret"); err != nil {
		return Config{}, "", fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.validateDatabase(); err != nil {
		return Config{}, "", err
	}

	return cfg, from, nil
}

func parse(name string, args []string, extra func(*flag.FlagSet)) (Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.StoreType, "s", cfg.StoreType, "Store type (csv, postgres, sqlite or rest)")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "Roster CSV path")
	fs.StringVar(&cfg.RestURL, "rest-url", cfg.RestURL, "REST store base URL")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.RestKey, "rest-key", cfg.RestKey, "REST store API key (prefer env)")
	fs.StringVar(&cfg.AdminSecret, "admin-secret", cfg.AdminSecret, "Admin secret (prefer env)")
	fs.StringVar(&cfg.SMTPPassword, "smtp-password", cfg.SMTPPassword, "SMTP password (prefer env)")

	fs.StringVar(&cfg.SMTPHost, "smtp-host", cfg.SMTPHost, "SMTP host")
	fs.IntVar(&cfg.SMTPPort, "smtp-port", cfg.SMTPPort, "SMTP port (implicit TLS)")
	fs.StringVar(&cfg.SMTPUser, "smtp-user", cfg.SMTPUser, "SMTP user, also the sender address")
	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "Address notified when everyone has registered")
	fs.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "Shuffles tried per draw")
	fs.IntVar(&cfg.EventYear, "year", cfg.EventYear, "Year shown in emails")

	if extra != nil {
		extra(fs)
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// The hosted table wins when its credentials are present
	if cfg.StoreType == "" {
		if cfg.RestURL != "" && cfg.RestKey != "" {
			cfg.StoreType = StoreREST
		} else {
			cfg.StoreType = StoreCSV
		}
	}
	if cfg.EventYear == 0 {
		cfg.EventYear = time.Now().Year()
	}

	return cfg, nil
}

// Validate checks field constraints and store-specific requirements
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return c.validateDatabase()
}

func (c Config) validateDatabase() error {
	if (c.StoreType == StorePostgres || c.StoreType == StoreSQLite) && c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	return nil
}
