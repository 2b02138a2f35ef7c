package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-admin-api/pkg/config"
)

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	dsn := PostgresDSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "audit",
		Password: "p@ss word/1",
		Name:     "college_admin_audit",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:5433", u.Host)
	assert.Equal(t, "/college_admin_audit", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word/1", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, auditApplicationName, u.Query().Get("application_name"))
}
