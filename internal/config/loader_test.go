package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"ATTENDANCE_HTTP_PORT",
	"ATTENDANCE_DATABASE_DRIVER",
	"ATTENDANCE_SQLITE_DSN",
	"ATTENDANCE_POSTGRES_DSN",
	"ATTENDANCE_JWT_SECRET",
	"ATTENDANCE_JWT_ISSUER",
	"ATTENDANCE_TIMEZONE",
	"ATTENDANCE_LOG_LEVEL",
	"ATTENDANCE_REQUEST_TIMEOUT",
	"ATTENDANCE_ENV_FILE",
}

// clearEnv unsets every attendance variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

const testSecret = "0123456789abcdef-secret"

func TestLoader_ParseEnvironment(t *testing.T) {
	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ATTENDANCE_JWT_SECRET", testSecret)

		cfg, err := LoadFile("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.DatabaseDriver != DriverSQLite || cfg.SQLitePath != "attendance.db" {
			t.Fatalf("unexpected default storage: %q %q", cfg.DatabaseDriver, cfg.SQLitePath)
		}
		if cfg.Location != time.UTC {
			t.Fatalf("expected UTC location, got %v", cfg.Location)
		}
		if cfg.LogLevel != slog.LevelInfo {
			t.Fatalf("expected info level, got %v", cfg.LogLevel)
		}
		if cfg.RequestTimeout != 5*time.Second {
			t.Fatalf("expected 5s timeout, got %v", cfg.RequestTimeout)
		}
		if cfg.JWTSecret != testSecret {
			t.Fatalf("expected secret to be %q, got %q", testSecret, cfg.JWTSecret)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnv(t)

		_, err := LoadFile("")
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "config: missing required environment variables: ATTENDANCE_JWT_SECRET"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ATTENDANCE_JWT_SECRET", testSecret)
		t.Setenv("ATTENDANCE_HTTP_PORT", "9090")
		t.Setenv("ATTENDANCE_DATABASE_DRIVER", "Postgres")
		t.Setenv("ATTENDANCE_POSTGRES_DSN", "postgres://localhost/attendance")
		t.Setenv("ATTENDANCE_JWT_ISSUER", "hr-portal")
		t.Setenv("ATTENDANCE_TIMEZONE", "Asia/Tokyo")
		t.Setenv("ATTENDANCE_LOG_LEVEL", "debug")
		t.Setenv("ATTENDANCE_REQUEST_TIMEOUT", "750ms")

		cfg, err := LoadFile("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.DatabaseDriver != DriverPostgres || cfg.PostgresDSN == "" {
			t.Fatalf("unexpected storage settings: %+v", cfg)
		}
		if cfg.JWTIssuer != "hr-portal" {
			t.Fatalf("unexpected issuer %q", cfg.JWTIssuer)
		}
		if cfg.Location.String() != "Asia/Tokyo" {
			t.Fatalf("unexpected location %v", cfg.Location)
		}
		if cfg.LogLevel != slog.LevelDebug {
			t.Fatalf("expected debug level, got %v", cfg.LogLevel)
		}
		if cfg.RequestTimeout != 750*time.Millisecond {
			t.Fatalf("unexpected timeout %v", cfg.RequestTimeout)
		}
	})

	t.Run("reports unparsable values together", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ATTENDANCE_JWT_SECRET", testSecret)
		t.Setenv("ATTENDANCE_HTTP_PORT", "eighty")
		t.Setenv("ATTENDANCE_TIMEZONE", "Mars/Olympus")
		t.Setenv("ATTENDANCE_REQUEST_TIMEOUT", "soon")

		_, err := LoadFile("")
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "config: invalid environment variable values: ATTENDANCE_HTTP_PORT, ATTENDANCE_TIMEZONE, ATTENDANCE_REQUEST_TIMEOUT"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("validates ranges and cross-field rules", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ATTENDANCE_JWT_SECRET", "short")
		t.Setenv("ATTENDANCE_HTTP_PORT", "70000")
		t.Setenv("ATTENDANCE_DATABASE_DRIVER", "postgres")
		t.Setenv("ATTENDANCE_REQUEST_TIMEOUT", "0s")

		_, err := LoadFile("")
		if err == nil {
			t.Fatalf("expected validation error")
		}
		for _, key := range []string{
			"ATTENDANCE_HTTP_PORT",
			"ATTENDANCE_POSTGRES_DSN",
			"ATTENDANCE_JWT_SECRET",
			"ATTENDANCE_REQUEST_TIMEOUT",
		} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s in %q", key, err.Error())
			}
		}
	})

	t.Run("rejects unknown drivers", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ATTENDANCE_JWT_SECRET", testSecret)
		t.Setenv("ATTENDANCE_DATABASE_DRIVER", "mysql")

		_, err := LoadFile("")
		if err == nil || !strings.Contains(err.Error(), "ATTENDANCE_DATABASE_DRIVER") {
			t.Fatalf("expected driver error, got %v", err)
		}
	})
}

func TestLoader_EnvFile(t *testing.T) {
	t.Run("reads values from the dotenv file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "attendance.env")
		content := "ATTENDANCE_JWT_SECRET=" + testSecret + "\nATTENDANCE_HTTP_PORT=7070\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
		t.Setenv("ATTENDANCE_ENV_FILE", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 7070 || cfg.JWTSecret != testSecret {
			t.Fatalf("dotenv values not applied: %+v", cfg)
		}
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "attendance.env")
		content := "ATTENDANCE_JWT_SECRET=" + testSecret + "\nATTENDANCE_HTTP_PORT=7070\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
		t.Setenv("ATTENDANCE_HTTP_PORT", "6060")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 6060 {
			t.Fatalf("expected process environment to win, got %d", cfg.HTTPPort)
		}
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ATTENDANCE_JWT_SECRET", testSecret)

		if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
			t.Fatalf("missing env file should be ignored: %v", err)
		}
	})
}
