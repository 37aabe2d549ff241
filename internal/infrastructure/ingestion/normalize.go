// Package ingestion normalizes raw scraped course dumps into upsert
// commands. Each platform ships its own JSON shape; the normalizer maps
// both into one neutral record so the rest of the pipeline does not
// care where a course came from.
package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
)

const (
	// udemyURLPrefix restores absolute URLs, udemy dumps carry paths only.
	udemyURLPrefix = "https://www.udemy.com"

	defaultDescription = "No description available"
)

// NormalizedCourse is the platform-neutral shape of a scraped course.
// Fields map one-to-one onto the course upsert command.
type NormalizedCourse struct {
	Platform    course.Platform
	Title       string
	Description string
	Authors     []string
	Skills      []string
	Rating      float64
	RatingCount int
	ImageURL    string
	IsFree      bool
	URL         string
}

// ══════════════════════════════════════════════════════════════════════════════
// UDEMY
// ══════════════════════════════════════════════════════════════════════════════

// udemy dumps are a flat array of course objects from the affiliate API.
type udemyCourseDTO struct {
	Title              string   `json:"title"`
	Headline           string   `json:"headline"`
	URL                string   `json:"url"`
	Rating             float64  `json:"rating"`
	NumReviews         int      `json:"num_reviews"`
	Image480x270       string   `json:"image_480x270"`
	IsPaid             bool     `json:"is_paid"`
	ObjectivesSummary  []string `json:"objectives_summary"`
	VisibleInstructors []struct {
		DisplayName string `json:"display_name"`
	} `json:"visible_instructors"`
}

// ParseUdemy parses a raw udemy JSON dump.
func ParseUdemy(raw []byte) ([]NormalizedCourse, error) {
	var dtos []udemyCourseDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("parse udemy dump: %w", err)
	}

	courses := make([]NormalizedCourse, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Title == "" || dto.URL == "" {
			continue
		}

		authors := make([]string, 0, len(dto.VisibleInstructors))
		for _, instructor := range dto.VisibleInstructors {
			authors = append(authors, instructor.DisplayName)
		}

		description := dto.Headline
		if description == "" {
			description = defaultDescription
		}

		courses = append(courses, NormalizedCourse{
			Platform:    course.PlatformUdemy,
			Title:       dto.Title,
			Description: description,
			Authors:     authors,
			Skills:      dto.ObjectivesSummary,
			Rating:      dto.Rating,
			RatingCount: dto.NumReviews,
			ImageURL:    dto.Image480x270,
			IsFree:      !dto.IsPaid,
			URL:         udemyURLPrefix + dto.URL,
		})
	}

	return courses, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSERA
// ══════════════════════════════════════════════════════════════════════════════

// coursera dumps are GraphQL search responses, the course list sits
// several levels deep.
type courseraDumpDTO []struct {
	Data struct {
		SearchResult struct {
			Search []struct {
				Elements []courseraElementDTO `json:"elements"`
			} `json:"search"`
		} `json:"SearchResult"`
	} `json:"data"`
}

type courseraElementDTO struct {
	Name              string   `json:"name"`
	URL               string   `json:"url"`
	Partners          []string `json:"partners"`
	Skills            []string `json:"skills"`
	AvgProductRating  float64  `json:"avgProductRating"`
	NumProductRatings int      `json:"numProductRatings"`
	ImageURL          string   `json:"imageUrl"`
	IsCourseFree      bool     `json:"isCourseFree"`
}

// ParseCoursera parses a raw coursera JSON dump.
func ParseCoursera(raw []byte) ([]NormalizedCourse, error) {
	var dump courseraDumpDTO
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, fmt.Errorf("parse coursera dump: %w", err)
	}

	var courses []NormalizedCourse
	for _, page := range dump {
		for _, search := range page.Data.SearchResult.Search {
			for _, el := range search.Elements {
				if el.Name == "" || el.URL == "" {
					continue
				}

				courses = append(courses, NormalizedCourse{
					Platform:    course.PlatformCoursera,
					Title:       el.Name,
					Description: defaultDescription,
					Authors:     el.Partners,
					Skills:      el.Skills,
					Rating:      el.AvgProductRating,
					RatingCount: el.NumProductRatings,
					ImageURL:    el.ImageURL,
					IsFree:      el.IsCourseFree,
					URL:         el.URL,
				})
			}
		}
	}

	return courses, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DIRECTORY LOADER
// ══════════════════════════════════════════════════════════════════════════════

// Loader reads raw dumps from a data directory laid out as
// <dir>/coursera/*.json and <dir>/udemy/*.json.
type Loader struct {
	dataDir string
}

// NewLoader creates a loader rooted at dataDir.
func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir}
}

// LoadAll reads and normalizes every dump found under the data directory.
// A missing platform subdirectory is not an error, scrapes may be partial.
func (l *Loader) LoadAll() ([]NormalizedCourse, error) {
	var all []NormalizedCourse

	coursera, err := l.loadPlatform("coursera", ParseCoursera)
	if err != nil {
		return nil, err
	}
	all = append(all, coursera...)

	udemy, err := l.loadPlatform("udemy", ParseUdemy)
	if err != nil {
		return nil, err
	}
	all = append(all, udemy...)

	return all, nil
}

func (l *Loader) loadPlatform(subdir string, parse func([]byte) ([]NormalizedCourse, error)) ([]NormalizedCourse, error) {
	dir := filepath.Join(l.dataDir, subdir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s dumps: %w", subdir, err)
	}

	var courses []NormalizedCourse
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read dump %s: %w", entry.Name(), err)
		}

		parsed, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("dump %s: %w", entry.Name(), err)
		}
		courses = append(courses, parsed...)
	}

	return courses, nil
}
