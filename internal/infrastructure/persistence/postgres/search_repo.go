package postgres

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/discussion"
	"github.com/coursecompass/course-discovery-hub/internal/domain/ranking"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VECTOR SEARCH REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// SearchRepository implements ranking.Retriever on top of pgvector.
// Similarity is computed inside PostgreSQL as 1 - (embedding <=> query),
// where <=> is the cosine distance operator, so candidate filtering and
// ordering ride the HNSW index instead of pulling vectors into Go.
type SearchRepository struct {
	conn *Connection
}

// NewSearchRepository creates a new SearchRepository.
func NewSearchRepository(conn *Connection) *SearchRepository {
	return &SearchRepository{conn: conn}
}

// SimilarCourses returns up to k courses strictly above the similarity
// threshold, most similar first, each with its internal review aggregate.
func (r *SearchRepository) SimilarCourses(ctx context.Context, query shared.Embedding, threshold float64, k int) ([]ranking.CourseMatch, error) {
	sql := `
		SELECT c.id, c.title, c.description, c.platform, c.authors, c.skills,
			   c.rating, c.rating_count, c.image_url, c.is_free, c.url, c.embedding, c.created_at,
			   1 - (c.embedding <=> $1) AS similarity,
			   COALESCE(rs.review_count, 0),
			   COALESCE(rs.review_avg, 0),
			   COALESCE(rs.review_min, 0),
			   COALESCE(rs.review_max, 0)
		FROM courses c
		LEFT JOIN (
			SELECT course_id,
				   COUNT(*) AS review_count,
				   ROUND(AVG(rating)::numeric, 2)::float8 AS review_avg,
				   MIN(rating) AS review_min,
				   MAX(rating) AS review_max
			FROM course_reviews
			GROUP BY course_id
		) rs ON rs.course_id = c.id
		WHERE 1 - (c.embedding <=> $1) > $2
		ORDER BY c.embedding <=> $1
		LIMIT $3
	`

	rows, err := r.conn.Query(ctx, sql, pgvector.NewVector(query), threshold, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}
	defer rows.Close()

	var matches []ranking.CourseMatch
	for rows.Next() {
		var (
			c         course.Course
			platform  string
			embedding pgvector.Vector
			m         ranking.CourseMatch
		)
		err := rows.Scan(
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
			&m.Similarity,
			&m.Stats.Count,
			&m.Stats.Average,
			&m.Stats.Min,
			&m.Stats.Max,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course match: %w", err)
		}
		c.Platform = course.Platform(platform)
		c.Embedding = shared.Embedding(embedding.Slice())
		m.Course = &c
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// SimilarSocial returns up to k discussions and replies strictly above
// the similarity threshold, in one mixed result ordered by similarity.
// Tombstoned replies are excluded: their text carries no signal and they
// must not resurface through search.
func (r *SearchRepository) SimilarSocial(ctx context.Context, query shared.Embedding, threshold float64, k int) ([]ranking.SocialMatch, error) {
	sql := `
		SELECT id, kind, title, text, user_id, discussion_id, created_at, similarity
		FROM (
			SELECT d.id,
				   'discussion' AS kind,
				   d.title,
				   d.description AS text,
				   d.user_id,
				   d.id AS discussion_id,
				   d.created_at,
				   1 - (d.embedding <=> $1) AS similarity
			FROM discussions d
			UNION ALL
			SELECT r.id,
				   'reply' AS kind,
				   '' AS title,
				   r.text,
				   r.user_id,
				   r.discussion_id,
				   r.created_at,
				   1 - (r.embedding <=> $1) AS similarity
			FROM replies r
			WHERE r.text <> $4
		) social
		WHERE similarity > $2
		ORDER BY similarity DESC
		LIMIT $3
	`

	rows, err := r.conn.Query(ctx, sql,
		pgvector.NewVector(query), threshold, k, discussion.TombstoneText)
	if err != nil {
		return nil, fmt.Errorf("failed to search social content: %w", err)
	}
	defer rows.Close()

	var matches []ranking.SocialMatch
	for rows.Next() {
		var (
			m    ranking.SocialMatch
			kind string
		)
		err := rows.Scan(
			&m.ID,
			&kind,
			&m.Title,
			&m.Text,
			&m.UserID,
			&m.DiscussionID,
			&m.CreatedAt,
			&m.Similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan social match: %w", err)
		}
		m.Type = ranking.ContentType(kind)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
