package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/coursecompass/course-discovery-hub/internal/domain/discussion"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DISCUSSION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// DiscussionRepository implements discussion.Repository for PostgreSQL.
type DiscussionRepository struct {
	conn *Connection
}

// NewDiscussionRepository creates a new DiscussionRepository.
func NewDiscussionRepository(conn *Connection) *DiscussionRepository {
	return &DiscussionRepository{conn: conn}
}

// Create stores a discussion together with its course links in one
// transaction. A partially linked discussion is never visible.
func (r *DiscussionRepository) Create(ctx context.Context, d *discussion.Discussion) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO discussions (id, user_id, title, description, journey_id, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			d.ID,
			d.UserID,
			d.Title,
			d.Description,
			journeyIDParam(d.JourneyID),
			pgvector.NewVector(d.Embedding),
			d.CreatedAt,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return shared.ErrUserNotFound
			}
			return fmt.Errorf("failed to create discussion: %w", err)
		}

		for _, courseID := range d.CourseIDs {
			_, err := tx.Exec(ctx, `
				INSERT INTO course_discussions (discussion_id, course_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, d.ID, courseID)
			if err != nil {
				if IsForeignKeyViolation(err) {
					return shared.ErrCourseNotFound
				}
				return fmt.Errorf("failed to link discussion to course: %w", err)
			}
		}
		return nil
	})
}

// GetByID returns a discussion with its course links.
func (r *DiscussionRepository) GetByID(ctx context.Context, id shared.ID) (*discussion.Discussion, error) {
	query := `
		SELECT id, user_id, title, description, journey_id, embedding, created_at
		FROM discussions
		WHERE id = $1
	`

	d, err := scanDiscussion(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrDiscussionNotFound
		}
		return nil, fmt.Errorf("failed to get discussion: %w", err)
	}

	rows, err := r.conn.Query(ctx,
		`SELECT course_id FROM course_discussions WHERE discussion_id = $1 ORDER BY course_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load discussion course links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID shared.ID
		if err := rows.Scan(&courseID); err != nil {
			return nil, fmt.Errorf("failed to scan course link: %w", err)
		}
		d.CourseIDs = append(d.CourseIDs, courseID)
	}
	return d, rows.Err()
}

// Update rewrites the title, description and embedding of a discussion.
func (r *DiscussionRepository) Update(ctx context.Context, d *discussion.Discussion) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE discussions SET title = $1, description = $2, embedding = $3
		WHERE id = $4
	`,
		d.Title,
		d.Description,
		pgvector.NewVector(d.Embedding),
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update discussion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrDiscussionNotFound
	}
	return nil
}

// Delete removes a discussion. Links and replies go with it via cascade.
func (r *DiscussionRepository) Delete(ctx context.Context, id shared.ID) (bool, error) {
	tag, err := r.conn.Exec(ctx, `DELETE FROM discussions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete discussion: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListForCourse returns discussions linked to a course in creation order,
// along with the pre-pagination total.
func (r *DiscussionRepository) ListForCourse(ctx context.Context, courseID shared.ID, page shared.Pagination) ([]*discussion.Discussion, int, error) {
	page = page.Normalize()

	var total int
	err := r.conn.QueryRow(ctx, `
		SELECT COUNT(*) FROM course_discussions WHERE course_id = $1
	`, courseID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count discussions: %w", err)
	}

	query := `
		SELECT d.id, d.user_id, d.title, d.description, d.journey_id, d.embedding, d.created_at
		FROM discussions d
		JOIN course_discussions cd ON cd.discussion_id = d.id
		WHERE cd.course_id = $1
		ORDER BY d.created_at, d.id
	`
	args := []interface{}{courseID}
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
		return nil, 0, fmt.Errorf("failed to list discussions: %w", err)
	}
	defer rows.Close()

	var discussions []*discussion.Discussion
	for rows.Next() {
		d, err := scanDiscussion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan discussion: %w", err)
		}
		discussions = append(discussions, d)
	}
	return discussions, total, rows.Err()
}

// Exists reports whether a discussion exists.
func (r *DiscussionRepository) Exists(ctx context.Context, id shared.ID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM discussions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check discussion existence: %w", err)
	}
	return exists, nil
}

// scanDiscussion reads one discussion row without course links.
func scanDiscussion(row pgx.Row) (*discussion.Discussion, error) {
	var (
		d         discussion.Discussion
		journeyID *string
		embedding pgvector.Vector
	)

	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Title,
		&d.Description,
		&journeyID,
		&embedding,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if journeyID != nil {
		id := shared.ID(*journeyID)
		d.JourneyID = &id
	}
	d.Embedding = shared.Embedding(embedding.Slice())
	return &d, nil
}

// journeyIDParam converts an optional journey reference into a SQL parameter.
func journeyIDParam(id *shared.ID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
