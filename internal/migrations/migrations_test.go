package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrdersEmbeddedMigrations(t *testing.T) {
	all, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, all)

	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "init", all[0].Name)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].Version, all[i-1].Version)
	}
}

func TestInitCreatesCoreTables(t *testing.T) {
	all, err := Load()
	require.NoError(t, err)

	for _, table := range []string{
		"articles", "categories", "users", "roles", "comments", "interactions",
		"smart_notifications", "audio_newsletters", "media_folders", "media_assets",
		"reporters", "muqtarab_corners", "muqtarab_articles",
	} {
		assert.True(t, strings.Contains(all[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" "),
			"missing table %s", table)
	}
}
