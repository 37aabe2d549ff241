package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
)

const udemyDump = `[
	{
		"title": "Go: The Complete Guide",
		"headline": "Build production services in Go",
		"url": "/course/go-complete-guide/",
		"rating": 4.6,
		"num_reviews": 12840,
		"image_480x270": "https://img.example.com/go.jpg",
		"is_paid": true,
		"objectives_summary": ["goroutines", "channels"],
		"visible_instructors": [{"display_name": "Jane Cooper"}]
	},
	{
		"title": "Intro to Programming",
		"headline": "",
		"url": "/course/intro/",
		"is_paid": false
	},
	{
		"title": "",
		"url": "/course/broken/"
	}
]`

const courseraDump = `[
	{
		"data": {
			"SearchResult": {
				"search": [
					{
						"elements": [
							{
								"name": "Machine Learning",
								"url": "https://www.coursera.org/learn/machine-learning",
								"partners": ["Stanford"],
								"skills": ["regression", "classification"],
								"avgProductRating": 4.9,
								"numProductRatings": 180000,
								"imageUrl": "https://img.example.com/ml.jpg",
								"isCourseFree": false
							},
							{
								"name": "",
								"url": "https://www.coursera.org/learn/nameless"
							}
						]
					}
				]
			}
		}
	}
]`

func TestParseUdemy(t *testing.T) {
	courses, err := ParseUdemy([]byte(udemyDump))
	require.NoError(t, err)
	require.Len(t, courses, 2, "запись без title отбрасывается")

	first := courses[0]
	assert.Equal(t, course.PlatformUdemy, first.Platform)
	assert.Equal(t, "Go: The Complete Guide", first.Title)
	assert.Equal(t, "Build production services in Go", first.Description)
	assert.Equal(t, []string{"Jane Cooper"}, first.Authors)
	assert.Equal(t, []string{"goroutines", "channels"}, first.Skills)
	assert.Equal(t, 4.6, first.Rating)
	assert.Equal(t, 12840, first.RatingCount)
	assert.False(t, first.IsFree)
	assert.Equal(t, "https://www.udemy.com/course/go-complete-guide/", first.URL)

	second := courses[1]
	assert.Equal(t, "No description available", second.Description)
	assert.True(t, second.IsFree)
}

func TestParseCoursera(t *testing.T) {
	courses, err := ParseCoursera([]byte(courseraDump))
	require.NoError(t, err)
	require.Len(t, courses, 1)

	ml := courses[0]
	assert.Equal(t, course.PlatformCoursera, ml.Platform)
	assert.Equal(t, "Machine Learning", ml.Title)
	assert.Equal(t, []string{"Stanford"}, ml.Authors)
	assert.Equal(t, 4.9, ml.Rating)
	assert.Equal(t, 180000, ml.RatingCount)
	assert.False(t, ml.IsFree)
	assert.Equal(t, "https://www.coursera.org/learn/machine-learning", ml.URL)
}

func TestParseUdemy_MalformedJSON(t *testing.T) {
	_, err := ParseUdemy([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "udemy"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "coursera"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "udemy", "dump1.json"), []byte(udemyDump), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coursera", "dump1.json"), []byte(courseraDump), 0o644))
	// Файлы других форматов игнорируются.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "udemy", "readme.txt"), []byte("x"), 0o644))

	courses, err := NewLoader(dir).LoadAll()
	require.NoError(t, err)
	assert.Len(t, courses, 3)
}

func TestLoader_MissingPlatformDirIsNotAnError(t *testing.T) {
	courses, err := NewLoader(t.TempDir()).LoadAll()
	require.NoError(t, err)
	assert.Empty(t, courses)
}
