package engagement

import (
	"context"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции леджера лайков.
type Repository interface {
	// Add вставляет лайк. Если тройка (user, object, type) уже существует,
	// возвращает существующий ряд и created=false - это не ошибка.
	// Гонку двух одновременных лайков разрешает уникальный констрейнт.
	Add(ctx context.Context, l *Like) (existing *Like, created bool, err error)

	// Remove удаляет лайк по тройке. Возвращает true, если ряд был.
	// Отсутствие лайка - no-op успех, не ошибка.
	Remove(ctx context.Context, userID, objectID shared.ID, objectType ObjectType) (bool, error)

	// Count возвращает количество лайков объекта.
	Count(ctx context.Context, objectID shared.ID, objectType ObjectType) (int, error)

	// Get возвращает лайк по тройке, ErrNotFound если его нет.
	Get(ctx context.Context, userID, objectID shared.ID, objectType ObjectType) (*Like, error)
}

// TargetProber проверяет существование объекта заданного типа.
// Леджер не знает про таблицы курсов или обсуждений - проверки
// существования инжектируются по одной на тип объекта.
type TargetProber interface {
	// Exists возвращает true, если объект существует.
	Exists(ctx context.Context, id shared.ID) (bool, error)
}

// ProberSet - набор проверок по типу объекта, диспетчеризация явным switch.
type ProberSet struct {
	Courses     TargetProber
	Journeys    TargetProber
	Discussions TargetProber
	Replies     TargetProber
}

// ProberFor возвращает проверку для типа объекта.
func (p ProberSet) ProberFor(t ObjectType) (TargetProber, error) {
	switch t {
	case ObjectCourse:
		return p.Courses, nil
	case ObjectJourney:
		return p.Journeys, nil
	case ObjectDiscussion:
		return p.Discussions, nil
	case ObjectReply:
		return p.Replies, nil
	default:
		return nil, shared.ErrInvalidObjectType
	}
}
