package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	cfg := Config{User: "u", Password: "p", Host: "db", Port: 5433, Name: "theatres", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p@db:5433/theatres?sslmode=disable", cfg.DSN())
}

func TestStatements_SplitsEmbeddedSchema(t *testing.T) {
	stmts := statements(schema)

	assert.NotEmpty(t, stmts)
	for _, s := range stmts {
		assert.NotEmpty(t, s)
		assert.False(t, strings.HasSuffix(s, ";"))
	}

	var tables []string
	for _, s := range stmts {
		if strings.HasPrefix(s, "CREATE TABLE") {
			tables = append(tables, strings.Fields(s)[5])
		}
	}
	assert.Equal(t, []string{"theatres", "packages", "addons", "gallery_images", "contacts", "bookings"}, tables)
}

func TestStatements_SkipsBlanksAndComments(t *testing.T) {
	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, statements(" SELECT 1 ;\n\n; -- note\n;SELECT 2;"))
}
