package postgres

import (
	"context"
	"fmt"

	"github.com/coursecompass/course-discovery-hub/internal/domain/engagement"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIKE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LikeRepository implements engagement.Repository for PostgreSQL.
type LikeRepository struct {
	conn *Connection
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(conn *Connection) *LikeRepository {
	return &LikeRepository{conn: conn}
}

// Add inserts a like. A duplicate (user, object, type) triple is not an
// error: the existing row comes back with created=false. The unique
// constraint settles the race between two simultaneous likes.
func (r *LikeRepository) Add(ctx context.Context, l *engagement.Like) (*engagement.Like, bool, error) {
	query := `
		INSERT INTO likes (id, user_id, object_id, object_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, object_id, object_type) DO NOTHING
		RETURNING id, created_at
	`

	inserted := *l
	err := r.conn.QueryRow(ctx, query,
		l.ID,
		l.UserID,
		l.ObjectID,
		string(l.ObjectType),
		l.CreatedAt,
	).Scan(&inserted.ID, &inserted.CreatedAt)
	if err == nil {
		return &inserted, true, nil
	}
	if !IsNoRows(err) {
		return nil, false, fmt.Errorf("failed to add like: %w", err)
	}

	existing, err := r.Get(ctx, l.UserID, l.ObjectID, l.ObjectType)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Remove deletes a like by its triple. A missing like is a no-op success.
func (r *LikeRepository) Remove(ctx context.Context, userID, objectID shared.ID, objectType engagement.ObjectType) (bool, error) {
	tag, err := r.conn.Exec(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND object_id = $2 AND object_type = $3
	`, userID, objectID, string(objectType))
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of likes on an object.
func (r *LikeRepository) Count(ctx context.Context, objectID shared.ID, objectType engagement.ObjectType) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `
		SELECT COUNT(*) FROM likes WHERE object_id = $1 AND object_type = $2
	`, objectID, string(objectType)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// Get returns a like by its triple.
func (r *LikeRepository) Get(ctx context.Context, userID, objectID shared.ID, objectType engagement.ObjectType) (*engagement.Like, error) {
	query := `
		SELECT id, user_id, object_id, object_type, created_at
		FROM likes
		WHERE user_id = $1 AND object_id = $2 AND object_type = $3
	`

	var (
		l       engagement.Like
		objType string
	)
	err := r.conn.QueryRow(ctx, query, userID, objectID, string(objectType)).Scan(
		&l.ID,
		&l.UserID,
		&l.ObjectID,
		&objType,
		&l.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.WrapError("engagement", "Get", shared.ErrNotFound, "like not found", nil)
		}
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	l.ObjectType = engagement.ObjectType(objType)
	return &l, nil
}
