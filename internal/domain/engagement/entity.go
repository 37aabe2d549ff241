// Package engagement содержит леджер лайков: идемпотентный учёт
// реакций пользователей на курсы, journeys, обсуждения и ответы.
package engagement

import (
	"strings"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// OBJECT TYPE
// ══════════════════════════════════════════════════════════════════════════════

// ObjectType - закрытый набор типов объектов, которые можно лайкать.
// Моделируется как типизированный enum с явным switch, а не сравнением строк.
type ObjectType string

const (
	// ObjectCourse - лайк курса.
	ObjectCourse ObjectType = "course"
	// ObjectJourney - лайк learning journey.
	ObjectJourney ObjectType = "journey"
	// ObjectDiscussion - лайк темы обсуждения.
	ObjectDiscussion ObjectType = "discussion"
	// ObjectReply - лайк ответа.
	ObjectReply ObjectType = "reply"
)

// IsValid проверяет, что тип объекта известен.
func (t ObjectType) IsValid() bool {
	switch t {
	case ObjectCourse, ObjectJourney, ObjectDiscussion, ObjectReply:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление типа.
func (t ObjectType) String() string {
	return string(t)
}

// ParseObjectType нормализует и проверяет тип объекта.
func ParseObjectType(s string) (ObjectType, error) {
	t := ObjectType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.ErrInvalidObjectType
	}
	return t, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIKE ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Like связывает пользователя с объектом. Составной уникальный ключ
// (UserID, ObjectID, ObjectType): один пользователь лайкает объект не более
// одного раза, повторный лайк возвращает существующий ряд без ошибки.
type Like struct {
	// ID - идентификатор лайка.
	ID shared.ID

	// UserID - кто лайкнул.
	UserID shared.ID

	// ObjectID - что лайкнули.
	ObjectID shared.ID

	// ObjectType - тип объекта.
	ObjectType ObjectType

	// CreatedAt - время лайка.
	CreatedAt time.Time
}

// NewLike создаёт лайк с валидацией.
func NewLike(userID, objectID shared.ID, objectType ObjectType) (*Like, error) {
	l := &Like{
		ID:         shared.NewID(),
		UserID:     userID,
		ObjectID:   objectID,
		ObjectType: objectType,
		CreatedAt:  time.Now().UTC(),
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate проверяет инварианты лайка.
func (l *Like) Validate() error {
	if !l.UserID.IsValid() {
		return shared.WrapError("engagement", "Validate", shared.ErrInvalidID, "user is required", nil)
	}
	if !l.ObjectID.IsValid() {
		return shared.WrapError("engagement", "Validate", shared.ErrInvalidID, "object is required", nil)
	}
	if !l.ObjectType.IsValid() {
		return shared.ErrInvalidObjectType
	}
	return nil
}
