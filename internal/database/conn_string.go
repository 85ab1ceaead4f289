package database

import (
	"fmt"
	"net/url"

	"github.com/rickgao/ico-resolver/internal/config"
)

// BuildConnString builds a PostgreSQL connection URL from config.
// Credentials are escaped; an empty password is omitted.
func BuildConnString(cfg config.DBConfig) string {
	user := url.User(cfg.User)
	if cfg.Password != "" {
		user = url.UserPassword(cfg.User, cfg.Password)
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
