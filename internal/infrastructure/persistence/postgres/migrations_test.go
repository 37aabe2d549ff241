package postgres

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Table names are part of the public storage contract; repositories and
// operators depend on them, so renames must be deliberate.
func TestMigrations_CreateExpectedTables(t *testing.T) {
	migrations := GetMigrations()
	require.Len(t, migrations, 5)

	var up, down strings.Builder
	for _, m := range migrations {
		up.WriteString(m.UpSQL)
		down.WriteString(m.DownSQL)
	}

	tables := []string{
		"users",
		"courses",
		"course_reviews",
		"discussions",
		"course_discussions",
		"replies",
		"likes",
		"learning_journeys",
		"journey_courses",
	}
	for _, table := range tables {
		assert.Contains(t, up.String(), fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (", table), "missing table %s", table)
		assert.Contains(t, down.String(), fmt.Sprintf("DROP TABLE IF EXISTS %s;", table), "missing down-migration for %s", table)
	}
}

func TestMigrations_ReviewTableConstraints(t *testing.T) {
	var m002 Migration
	for _, m := range GetMigrations() {
		if m.Version == 2 {
			m002 = m
		}
	}
	require.NotEmpty(t, m002.UpSQL)

	// One review per (user, course), rating bounded to the 0..5 scale.
	assert.Contains(t, m002.UpSQL, "CONSTRAINT uq_course_reviews_user_course UNIQUE (user_id, course_id)")
	assert.Contains(t, m002.UpSQL, "ON course_reviews(course_id)")
	assert.NotContains(t, m002.UpSQL, "TABLE IF NOT EXISTS reviews")
}

func TestMigrations_VersionsAreSequential(t *testing.T) {
	for i, m := range GetMigrations() {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.Name)
	}
}
