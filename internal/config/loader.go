package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/example/attendance-portal/internal/logging"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config captures environment driven configuration values for the attendance service.
type Config struct {
	HTTPPort       int            `env:"ATTENDANCE_HTTP_PORT" validate:"min=1,max=65535"`
	DatabaseDriver string         `env:"ATTENDANCE_DATABASE_DRIVER" validate:"oneof=sqlite postgres"`
	SQLitePath     string         `env:"ATTENDANCE_SQLITE_DSN" validate:"required_if=DatabaseDriver sqlite"`
	PostgresDSN    string         `env:"ATTENDANCE_POSTGRES_DSN" validate:"required_if=DatabaseDriver postgres"`
	JWTSecret      string         `env:"ATTENDANCE_JWT_SECRET" validate:"required,min=16"`
	JWTIssuer      string         `env:"ATTENDANCE_JWT_ISSUER"`
	Timezone       string         `env:"ATTENDANCE_TIMEZONE" validate:"required"`
	Location       *time.Location `env:"-" validate:"required"`
	LogLevel       slog.Level     `env:"ATTENDANCE_LOG_LEVEL"`
	RequestTimeout time.Duration  `env:"ATTENDANCE_REQUEST_TIMEOUT" validate:"gt=0"`
}

// Load parses configuration values from the current process environment after
// merging the dotenv file named by ATTENDANCE_ENV_FILE (default ".env").
//
// Variables already present in the environment win over the file. A missing
// file is not an error.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("ATTENDANCE_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	return LoadFile(envFile)
}

// LoadFile behaves like Load with an explicit dotenv path.
func LoadFile(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", envFile, err)
		}
	}
	return fromEnvironment()
}

func fromEnvironment() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		DatabaseDriver: DriverSQLite,
		SQLitePath:     "attendance.db",
		Timezone:       "UTC",
		Location:       time.UTC,
		LogLevel:       slog.LevelInfo,
		RequestTimeout: 5 * time.Second,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := lookup("ATTENDANCE_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil {
			invalid = append(invalid, "ATTENDANCE_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if driver := lookup("ATTENDANCE_DATABASE_DRIVER"); driver != "" {
		cfg.DatabaseDriver = strings.ToLower(driver)
	}
	if path := lookup("ATTENDANCE_SQLITE_DSN"); path != "" {
		cfg.SQLitePath = path
	}
	cfg.PostgresDSN = lookup("ATTENDANCE_POSTGRES_DSN")

	if secret := lookup("ATTENDANCE_JWT_SECRET"); secret == "" {
		missing = append(missing, "ATTENDANCE_JWT_SECRET")
	} else {
		cfg.JWTSecret = secret
	}
	cfg.JWTIssuer = lookup("ATTENDANCE_JWT_ISSUER")

	if tz := lookup("ATTENDANCE_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			invalid = append(invalid, "ATTENDANCE_TIMEZONE")
		} else {
			cfg.Timezone = tz
			cfg.Location = loc
		}
	}

	if levelValue := lookup("ATTENDANCE_LOG_LEVEL"); levelValue != "" {
		level, err := logging.ParseLevel(levelValue)
		if err != nil {
			invalid = append(invalid, "ATTENDANCE_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if timeoutValue := lookup("ATTENDANCE_REQUEST_TIMEOUT"); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil {
			invalid = append(invalid, "ATTENDANCE_REQUEST_TIMEOUT")
		} else {
			cfg.RequestTimeout = timeout
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid environment variable values: %s", strings.Join(invalid, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the cross-field rules declared in the struct tags and
// reports offending settings by their environment variable name.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: %w", err)
	}
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fe.Field())
	}
	return fmt.Errorf("config: invalid environment variable values: %s", strings.Join(names, ", "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := field.Tag.Get("env")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
