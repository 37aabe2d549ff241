package postgres

import (
	"context"
	"fmt"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ReviewRepository implements course.ReviewRepository for PostgreSQL.
type ReviewRepository struct {
	conn *Connection
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(conn *Connection) *ReviewRepository {
	return &ReviewRepository{conn: conn}
}

// Upsert inserts a review or updates the existing one for the same
// (user, course) pair in place. The unique constraint makes this safe
// under concurrent submissions from the same user.
func (r *ReviewRepository) Upsert(ctx context.Context, rev *course.Review) (shared.ID, bool, error) {
	query := `
		INSERT INTO course_reviews (id, user_id, course_id, rating, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, course_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax <> 0) AS updated
	`

	var (
		id      shared.ID
		updated bool
	)
	err := r.conn.QueryRow(ctx, query,
		rev.ID,
		rev.UserID,
		rev.CourseID,
		rev.Rating,
		rev.Description,
		rev.CreatedAt,
		rev.UpdatedAt,
	).Scan(&id, &updated)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return "", false, shared.ErrCourseNotFound
		}
		return "", false, fmt.Errorf("failed to upsert review: %w", err)
	}

	return id, updated, nil
}

// GetByID returns a review by ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id shared.ID) (*course.Review, error) {
	query := `
		SELECT id, user_id, course_id, rating, description, created_at, updated_at
		FROM course_reviews
		WHERE id = $1
	`

	var rev course.Review
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&rev.ID,
		&rev.UserID,
		&rev.CourseID,
		&rev.Rating,
		&rev.Description,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &rev, nil
}

// ListForCourse returns all reviews of a course in creation order.
func (r *ReviewRepository) ListForCourse(ctx context.Context, courseID shared.ID) ([]*course.Review, error) {
	query := `
		SELECT id, user_id, course_id, rating, description, created_at, updated_at
		FROM course_reviews
		WHERE course_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.conn.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*course.Review
	for rows.Next() {
		var rev course.Review
		err := rows.Scan(
			&rev.ID,
			&rev.UserID,
			&rev.CourseID,
			&rev.Rating,
			&rev.Description,
			&rev.CreatedAt,
			&rev.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &rev)
	}
	return reviews, rows.Err()
}

// StatsForCourses returns review aggregates for a set of courses in one
// round trip. Courses with no reviews are absent from the result.
func (r *ReviewRepository) StatsForCourses(ctx context.Context, courseIDs []shared.ID) (map[shared.ID]course.ReviewStats, error) {
	stats := make(map[shared.ID]course.ReviewStats, len(courseIDs))
	if len(courseIDs) == 0 {
		return stats, nil
	}

	query := `
		SELECT course_id,
			   COUNT(*),
			   ROUND(AVG(rating)::numeric, 2)::float8,
			   MIN(rating),
			   MAX(rating)
		FROM course_reviews
		WHERE course_id = ANY($1)
		GROUP BY course_id
	`

	ids := make([]string, len(courseIDs))
	for i, id := range courseIDs {
		ids[i] = id.String()
	}

	rows, err := r.conn.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query review stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			courseID shared.ID
			s        course.ReviewStats
		)
		if err := rows.Scan(&courseID, &s.Count, &s.Average, &s.Min, &s.Max); err != nil {
			return nil, fmt.Errorf("failed to scan review stats: %w", err)
		}
		stats[courseID] = s
	}
	return stats, rows.Err()
}

// Delete removes a review. Returns true if the row existed.
func (r *ReviewRepository) Delete(ctx context.Context, id shared.ID) (bool, error) {
	tag, err := r.conn.Exec(ctx, `DELETE FROM course_reviews WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete review: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
