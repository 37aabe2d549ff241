package postgres

import (
	"context"
	"fmt"

	"github.com/coursecompass/course-discovery-hub/internal/domain/journey"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOURNEY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// JourneyRepository implements journey.Repository for PostgreSQL.
type JourneyRepository struct {
	conn *Connection
}

// NewJourneyRepository creates a new JourneyRepository.
func NewJourneyRepository(conn *Connection) *JourneyRepository {
	return &JourneyRepository{conn: conn}
}

// Create stores a new learning journey.
func (r *JourneyRepository) Create(ctx context.Context, j *journey.Journey) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO learning_journeys (id, user_id, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, j.ID, j.UserID, j.Title, j.Description, j.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return fmt.Errorf("failed to create journey: %w", err)
	}
	return nil
}

// GetByID returns a journey by ID.
func (r *JourneyRepository) GetByID(ctx context.Context, id shared.ID) (*journey.Journey, error) {
	var j journey.Journey
	err := r.conn.QueryRow(ctx, `
		SELECT id, user_id, title, description, created_at
		FROM learning_journeys
		WHERE id = $1
	`, id).Scan(&j.ID, &j.UserID, &j.Title, &j.Description, &j.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrJourneyNotFound
		}
		return nil, fmt.Errorf("failed to get journey: %w", err)
	}
	return &j, nil
}

// Delete removes a journey. Course entries go with it via cascade.
func (r *JourneyRepository) Delete(ctx context.Context, id shared.ID) (bool, error) {
	tag, err := r.conn.Exec(ctx, `DELETE FROM learning_journeys WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete journey: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AppendCourse adds a course at an explicit position. An occupied
// position surfaces as ErrJourneyPositionTaken; two concurrent appends
// to the same slot are settled by the unique constraint.
func (r *JourneyRepository) AppendCourse(ctx context.Context, e *journey.CourseEntry) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO journey_courses (id, journey_id, course_id, position)
		VALUES ($1, $2, $3, $4)
	`, e.ID, e.JourneyID, e.CourseID, e.Position)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrJourneyPositionTaken
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrJourneyNotFound
		}
		return fmt.Errorf("failed to append course to journey: %w", err)
	}
	return nil
}

// NextPosition returns the next free position, 1 for an empty journey.
func (r *JourneyRepository) NextPosition(ctx context.Context, journeyID shared.ID) (int, error) {
	var next int
	err := r.conn.QueryRow(ctx, `
		SELECT COALESCE(MAX(position), 0) + 1 FROM journey_courses WHERE journey_id = $1
	`, journeyID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next position: %w", err)
	}
	return next, nil
}

// ListCourses returns the journey's course entries in position order.
func (r *JourneyRepository) ListCourses(ctx context.Context, journeyID shared.ID) ([]*journey.CourseEntry, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, journey_id, course_id, position
		FROM journey_courses
		WHERE journey_id = $1
		ORDER BY position
	`, journeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journey courses: %w", err)
	}
	defer rows.Close()

	var entries []*journey.CourseEntry
	for rows.Next() {
		var e journey.CourseEntry
		if err := rows.Scan(&e.ID, &e.JourneyID, &e.CourseID, &e.Position); err != nil {
			return nil, fmt.Errorf("failed to scan journey course: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Exists reports whether a journey exists.
func (r *JourneyRepository) Exists(ctx context.Context, id shared.ID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM learning_journeys WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check journey existence: %w", err)
	}
	return exists, nil
}
