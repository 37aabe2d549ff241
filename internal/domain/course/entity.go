// Package course содержит доменную модель курса и отзыва о курсе.
// Это ядро контентного графа - здесь нет внешних зависимостей,
// только инварианты данных.
package course

import (
	"strings"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Platform определяет площадку, с которой получен курс.
// Каноническая форма - строка в нижнем регистре на всех границах системы:
// в конструкторе, при чтении из базы и в JSON. Никаких эвристик
// с распаковкой кортежей - значение вне списка это ошибка валидации.
type Platform string

const (
	// PlatformCoursera - курсы с Coursera.
	PlatformCoursera Platform = "coursera"
	// PlatformUdemy - курсы с Udemy.
	PlatformUdemy Platform = "udemy"
)

// IsValid проверяет, что площадка известна системе.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformCoursera, PlatformUdemy:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление площадки.
func (p Platform) String() string {
	return string(p)
}

// ParsePlatform нормализует и проверяет название площадки.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", shared.ErrInvalidPlatform
	}
	return p, nil
}

// ExternalRating - рейтинг курса, сообщённый самой площадкой.
// Это отдельный источник сигнала, несравнимый с внутренними отзывами:
// счётчики площадок глобальные и на порядки больше наших.
type ExternalRating struct {
	// Value - средний рейтинг площадки (0-5).
	Value float64

	// Count - количество оценок на площадке.
	Count int
}

// IsValid проверяет диапазон рейтинга и неотрицательность счётчика.
func (r ExternalRating) IsValid() bool {
	return r.Value >= 0 && r.Value <= 5 && r.Count >= 0
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Course представляет курс, собранный с внешней площадки.
// Идентичность курса - пара (Platform, URL): повторная вставка той же пары
// не создаёт дубликат и не перезаписывает поля (первые данные каноничны).
type Course struct {
	// ID - внутренний идентификатор (UUID).
	ID shared.ID

	// Title - название курса. Обязательное поле.
	Title string

	// Description - описание курса (может отсутствовать, у Coursera его нет).
	Description string

	// Platform - площадка-источник. Обязательное поле.
	Platform Platform

	// Authors - список авторов/преподавателей.
	Authors []string

	// Skills - список навыков, которые даёт курс.
	Skills []string

	// Rating - внешний рейтинг площадки.
	Rating ExternalRating

	// ImageURL - ссылка на обложку.
	ImageURL string

	// IsFree - бесплатный ли курс.
	IsFree bool

	// URL - ссылка на курс. Вместе с Platform образует идентичность.
	URL string

	// Embedding - вектор эмбеддинга (768 float32) для семантического поиска.
	Embedding shared.Embedding

	// CreatedAt - время первой вставки.
	CreatedAt time.Time
}

// NewCourse создаёт курс с валидацией инвариантов.
// Обязательные поля: Title, Platform, URL, Embedding.
func NewCourse(title, description string, platform Platform, url string, embedding shared.Embedding) (*Course, error) {
	c := &Course{
		ID:          shared.NewID(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Platform:    platform,
		URL:         strings.TrimSpace(url),
		Embedding:   embedding,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate проверяет инварианты курса.
func (c *Course) Validate() error {
	if c.Title == "" {
		return shared.WrapError("course", "Validate", shared.ErrEmptyValue, "title is required", nil)
	}
	if !c.Platform.IsValid() {
		return shared.ErrInvalidPlatform
	}
	if c.URL == "" {
		return shared.WrapError("course", "Validate", shared.ErrEmptyValue, "url is required", nil)
	}
	if !c.Embedding.IsValid() {
		return shared.WrapError("course", "Validate", shared.ErrValidation, "embedding must have exactly 768 dimensions", nil)
	}
	if !c.Rating.IsValid() {
		return shared.WrapError("course", "Validate", shared.ErrValueOutOfRange, "external rating out of range", nil)
	}
	return nil
}

// Identity возвращает естественный ключ курса.
func (c *Course) Identity() (Platform, string) {
	return c.Platform, c.URL
}

// EmbeddingText собирает текст, из которого строится эмбеддинг курса:
// название, описание и навыки. Тот же текст используется при инжесте
// и при проверке кеша эмбеддингов.
func (c *Course) EmbeddingText() string {
	parts := []string{c.Title}
	if c.Description != "" {
		parts = append(parts, c.Description)
	}
	if len(c.Skills) > 0 {
		parts = append(parts, strings.Join(c.Skills, ", "))
	}
	return strings.Join(parts, "\n")
}
