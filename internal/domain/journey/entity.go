// Package journey содержит доменную модель learning journey -
// упорядоченной подборки курсов, составленной пользователем.
package journey

import (
	"strings"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOURNEY ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Journey представляет learning journey пользователя.
type Journey struct {
	// ID - идентификатор journey.
	ID shared.ID

	// UserID - владелец.
	UserID shared.ID

	// Title - название. Обязательное поле.
	Title string

	// Description - описание. Обязательное поле.
	Description string

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// NewJourney создаёт journey с валидацией.
func NewJourney(userID shared.ID, title, description string) (*Journey, error) {
	j := &Journey{
		ID:          shared.NewID(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}

// Validate проверяет инварианты journey.
func (j *Journey) Validate() error {
	if !j.UserID.IsValid() {
		return shared.WrapError("journey", "Validate", shared.ErrInvalidID, "owner is required", nil)
	}
	if j.Title == "" || j.Description == "" {
		return shared.WrapError("journey", "Validate", shared.ErrEmptyValue, "title and description are required", nil)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// CourseEntry - курс внутри journey на конкретной позиции.
// Инвариант: позиция положительна и уникальна в рамках journey.
type CourseEntry struct {
	// ID - идентификатор ряда.
	ID shared.ID

	// JourneyID - journey, которой принадлежит запись.
	JourneyID shared.ID

	// CourseID - курс.
	CourseID shared.ID

	// Position - порядковый номер курса в journey, начиная с 1.
	Position int
}

// NewCourseEntry создаёт запись с валидацией.
func NewCourseEntry(journeyID, courseID shared.ID, position int) (*CourseEntry, error) {
	e := &CourseEntry{
		ID:        shared.NewID(),
		JourneyID: journeyID,
		CourseID:  courseID,
		Position:  position,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate проверяет инварианты записи.
func (e *CourseEntry) Validate() error {
	if !e.JourneyID.IsValid() || !e.CourseID.IsValid() {
		return shared.WrapError("journey", "Validate", shared.ErrInvalidID, "journey and course are required", nil)
	}
	if e.Position <= 0 {
		return shared.ErrInvalidJourneyOrder
	}
	return nil
}
