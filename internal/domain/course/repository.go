package course

import (
	"context"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Контракты хранилища. Реализации - в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над курсами.
type Repository interface {
	// Upsert вставляет курс по естественному ключу (platform, url).
	// Если курс уже существует, возвращает его ID и created=false,
	// ничего не перезаписывая - данные первой вставки каноничны.
	// Гонки разрешает уникальный констрейнт в базе, а не проверка в коде.
	Upsert(ctx context.Context, c *Course) (id shared.ID, created bool, err error)

	// GetByID возвращает курс по внутреннему ID.
	// Возвращает ErrCourseNotFound, если курса нет.
	GetByID(ctx context.Context, id shared.ID) (*Course, error)

	// GetByIdentity возвращает курс по естественному ключу.
	GetByIdentity(ctx context.Context, platform Platform, url string) (*Course, error)

	// List возвращает курсы, упорядоченные по названию.
	// Limit и Offset независимы и необязательны.
	List(ctx context.Context, page shared.Pagination) ([]*Course, error)

	// Count возвращает общее количество курсов.
	Count(ctx context.Context) (int, error)

	// Exists проверяет наличие курса по ID. Используется леджером лайков.
	Exists(ctx context.Context, id shared.ID) (bool, error)
}

// ReviewRepository определяет операции над отзывами.
type ReviewRepository interface {
	// Upsert вставляет отзыв или обновляет существующий для пары
	// (user, course): рейтинг, текст и updated_at перезаписываются на месте.
	// Возвращает ID ряда и updated=true при обновлении.
	Upsert(ctx context.Context, r *Review) (id shared.ID, updated bool, err error)

	// GetByID возвращает отзыв по ID.
	GetByID(ctx context.Context, id shared.ID) (*Review, error)

	// ListForCourse возвращает все отзывы курса в порядке создания.
	ListForCourse(ctx context.Context, courseID shared.ID) ([]*Review, error)

	// StatsForCourses возвращает агрегаты отзывов для набора курсов.
	// Курсы без отзывов в результат не попадают.
	StatsForCourses(ctx context.Context, courseIDs []shared.ID) (map[shared.ID]ReviewStats, error)

	// Delete удаляет отзыв. Возвращает true, если ряд существовал.
	Delete(ctx context.Context, id shared.ID) (bool, error)
}
