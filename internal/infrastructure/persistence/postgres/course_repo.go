package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

const courseColumns = `
	id, title, description, platform, authors, skills,
	rating, rating_count, image_url, is_free, url, embedding, created_at
`

// Upsert inserts a course keyed by (platform, url). When the identity
// already exists the stored row wins: nothing is overwritten and the
// existing ID is returned with created=false. Concurrent inserts of the
// same identity are resolved by the unique constraint, not by a
// check-then-insert in code.
func (r *CourseRepository) Upsert(ctx context.Context, c *course.Course) (shared.ID, bool, error) {
	query := `
		INSERT INTO courses (
			id, title, description, platform, authors, skills,
			rating, rating_count, image_url, is_free, url, embedding, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (platform, url) DO NOTHING
		RETURNING id
	`

	var id shared.ID
	err := r.conn.QueryRow(ctx, query,
		c.ID,
		c.Title,
		c.Description,
		string(c.Platform),
		c.Authors,
		c.Skills,
		c.Rating.Value,
		c.Rating.Count,
		c.ImageURL,
		c.IsFree,
		c.URL,
		pgvector.NewVector(c.Embedding),
		c.CreatedAt,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !IsNoRows(err) {
		return "", false, fmt.Errorf("failed to upsert course: %w", err)
	}

	// Identity already present: the first write is canonical.
	existing, err := r.GetByIdentity(ctx, c.Platform, c.URL)
	if err != nil {
		return "", false, err
	}
	return existing.ID, false, nil
}

// GetByID returns a course by internal ID.
func (r *CourseRepository) GetByID(ctx context.Context, id shared.ID) (*course.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	c, err := scanCourse(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return c, nil
}

// GetByIdentity returns a course by its natural key.
func (r *CourseRepository) GetByIdentity(ctx context.Context, platform course.Platform, url string) (*course.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE platform = $1 AND url = $2`

	c, err := scanCourse(r.conn.QueryRow(ctx, query, string(platform), url))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course by identity: %w", err)
	}
	return c, nil
}

// List returns courses ordered by title.
func (r *CourseRepository) List(ctx context.Context, page shared.Pagination) ([]*course.Course, error) {
	page = page.Normalize()

	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY title, id`
	args := []interface{}{}
	if page.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, page.Limit)
	}
	if page.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, page.Offset)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Count returns the total number of courses.
func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}

// Exists reports whether a course with the given ID exists.
func (r *CourseRepository) Exists(ctx context.Context, id shared.ID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check course existence: %w", err)
	}
	return exists, nil
}

// scanCourse reads one course row.
func scanCourse(row pgx.Row) (*course.Course, error) {
	var (
		c         course.Course
		platform  string
		embedding pgvector.Vector
	)

	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&platform,
		&c.Authors,
		&c.Skills,
		&c.Rating.Value,
		&c.Rating.Count,
		&c.ImageURL,
		&c.IsFree,
		&c.URL,
		&embedding,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Platform = course.Platform(platform)
	c.Embedding = shared.Embedding(embedding.Slice())
	return &c, nil
}
