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
// REPLY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ReplyRepository implements discussion.ReplyRepository for PostgreSQL.
type ReplyRepository struct {
	conn *Connection
}

// NewReplyRepository creates a new ReplyRepository.
func NewReplyRepository(conn *Connection) *ReplyRepository {
	return &ReplyRepository{conn: conn}
}

// Create stores a new reply.
func (r *ReplyRepository) Create(ctx context.Context, rep *discussion.Reply) error {
	query := `
		INSERT INTO replies (id, user_id, discussion_id, parent_reply_id, text, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var parent interface{}
	if rep.ParentReplyID != nil {
		parent = *rep.ParentReplyID
	}

	_, err := r.conn.Exec(ctx, query,
		rep.ID,
		rep.UserID,
		rep.DiscussionID,
		parent,
		rep.Text,
		pgvector.NewVector(rep.Embedding),
		rep.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrDiscussionNotFound
		}
		return fmt.Errorf("failed to create reply: %w", err)
	}
	return nil
}

// GetByID returns a reply by ID.
func (r *ReplyRepository) GetByID(ctx context.Context, id shared.ID) (*discussion.Reply, error) {
	query := `
		SELECT id, user_id, discussion_id, parent_reply_id, text, embedding, created_at
		FROM replies
		WHERE id = $1
	`

	rep, err := scanReply(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrReplyNotFound
		}
		return nil, fmt.Errorf("failed to get reply: %w", err)
	}
	return rep, nil
}

// ListForDiscussion returns one page of replies in creation order plus
// the pre-pagination total. Tombstoned replies stay in the listing so
// the tree keeps its shape.
func (r *ReplyRepository) ListForDiscussion(ctx context.Context, discussionID shared.ID, page shared.Pagination) ([]*discussion.Reply, int, error) {
	page = page.Normalize()

	var total int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM replies WHERE discussion_id = $1`, discussionID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count replies: %w", err)
	}

	query := `
		SELECT id, user_id, discussion_id, parent_reply_id, text, embedding, created_at
		FROM replies
		WHERE discussion_id = $1
		ORDER BY created_at, id
	`
	args := []interface{}{discussionID}
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
		return nil, 0, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	var replies []*discussion.Reply
	for rows.Next() {
		rep, err := scanReply(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan reply: %w", err)
		}
		replies = append(replies, rep)
	}
	return replies, total, rows.Err()
}

// Tombstone replaces the reply text with the sentinel. The row and its
// children are untouched, so repeated calls converge on the same state.
func (r *ReplyRepository) Tombstone(ctx context.Context, id shared.ID) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE replies SET text = $1 WHERE id = $2`, discussion.TombstoneText, id)
	if err != nil {
		return fmt.Errorf("failed to tombstone reply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrReplyNotFound
	}
	return nil
}

// Exists reports whether a reply exists.
func (r *ReplyRepository) Exists(ctx context.Context, id shared.ID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM replies WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reply existence: %w", err)
	}
	return exists, nil
}

// scanReply reads one reply row.
func scanReply(row pgx.Row) (*discussion.Reply, error) {
	var (
		rep       discussion.Reply
		parentID  *string
		embedding pgvector.Vector
	)

	err := row.Scan(
		&rep.ID,
		&rep.UserID,
		&rep.DiscussionID,
		&parentID,
		&rep.Text,
		&embedding,
		&rep.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		id := shared.ID(*parentID)
		rep.ParentReplyID = &id
	}
	rep.Embedding = shared.Embedding(embedding.Slice())
	return &rep, nil
}
