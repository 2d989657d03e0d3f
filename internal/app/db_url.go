package app

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/playoff-stats/internal/config"
)

// DatabaseURL returns DB_URL when set, otherwise a postgres URL assembled
// from the DB_* parts.
func DatabaseURL(cfg config.Config) string {
	raw := strings.TrimSpace(cfg.DBURL)
	if raw == "" {
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort)),
			Path:   "/" + cfg.DBName,
		}
		if cfg.DBPassword != "" {
			u.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
		} else {
			u.User = url.User(cfg.DBUser)
		}
		query := url.Values{}
		if cfg.DBSSLMode != "" {
			query.Set("sslmode", cfg.DBSSLMode)
		}
		u.RawQuery = query.Encode()
		raw = u.String()
	}

	return normalizeDBURL(raw, cfg.DBDisablePreparedBinary)
}

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

// redactDBURL hides the password for log lines.
func redactDBURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return "<dsn>"
	}
	return parsed.Redacted()
}
