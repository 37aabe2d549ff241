// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// ID represents a unique entity identifier (UUID format).
type ID string

// IsValid checks if the ID is a valid UUID.
func (i ID) IsValid() bool {
	_, err := uuid.Parse(string(i))
	return err == nil
}

// String returns the string representation.
func (i ID) String() string {
	return string(i)
}

// UUID returns the parsed uuid.UUID value. Callers must validate first.
func (i ID) UUID() uuid.UUID {
	u, _ := uuid.Parse(string(i))
	return u
}

// NewID generates a new random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// ParseID creates an ID from a string with validation.
func ParseID(s string) (ID, error) {
	id := ID(strings.TrimSpace(s))
	if !id.IsValid() {
		return "", WrapError("shared", "ParseID", ErrInvalidID, "malformed UUID", nil)
	}
	return id, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Embedding
// ═══════════════════════════════════════════════════════════════════════════

// EmbeddingDim - размерность всех векторов в системе. Шлюз эмбеддингов
// возвращает ровно 768 float32, и колонки vector(768) в Postgres это
// единственный допустимый формат.
const EmbeddingDim = 768

// Embedding - вектор эмбеддинга фиксированной длины.
type Embedding []float32

// IsValid проверяет, что вектор имеет правильную размерность.
func (e Embedding) IsValid() bool {
	return len(e) == EmbeddingDim
}

// IsZero возвращает true для пустого (не заданного) вектора.
func (e Embedding) IsZero() bool {
	return len(e) == 0
}

// CosineSimilarity вычисляет косинусную близость двух векторов: 1 - cosineDistance.
// Возвращает 0, если один из векторов нулевой.
func (e Embedding) CosineSimilarity(other Embedding) float64 {
	if len(e) != len(other) || len(e) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range e {
		a := float64(e[i])
		b := float64(other[i])
		dot += a * b
		normA += a * a
		normB += b * b
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// NewEmbedding validates the dimension and returns an Embedding.
func NewEmbedding(values []float32) (Embedding, error) {
	if len(values) != EmbeddingDim {
		return nil, WrapError("shared", "NewEmbedding", ErrValidation, "embedding must have exactly 768 dimensions", nil)
	}
	return Embedding(values), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination
// ═══════════════════════════════════════════════════════════════════════════

// Pagination holds limit/offset parameters. Both are optional and independent:
// a zero Limit means "no limit", a zero Offset starts from the beginning.
type Pagination struct {
	Limit  int
	Offset int
}

// Normalize clamps negative values to zero.
func (p Pagination) Normalize() Pagination {
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Page describes one paginated result window alongside the total count.
// Returned и Total всегда согласованы с неразбитым на страницы списком.
type Page struct {
	Total    int `json:"total"`
	Offset   int `json:"offset"`
	Limit    int `json:"limit"`
	Returned int `json:"returned"`
}

// ═══════════════════════════════════════════════════════════════════════════
// Redaction
// ═══════════════════════════════════════════════════════════════════════════

// RedactEmail partially hides an email address for public display:
// "reviewer@example.com" becomes "r******r@example.com".
func RedactEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	local := email[:at]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + email[at:]
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + email[at:]
}
