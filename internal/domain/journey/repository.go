package journey

import (
	"context"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// Repository определяет операции над learning journeys.
type Repository interface {
	// Create сохраняет новую journey.
	Create(ctx context.Context, j *Journey) error

	// GetByID возвращает journey по ID.
	// Возвращает ErrJourneyNotFound, если её нет.
	GetByID(ctx context.Context, id shared.ID) (*Journey, error)

	// Delete удаляет journey вместе с записями курсов.
	// Возвращает true, если ряд существовал.
	Delete(ctx context.Context, id shared.ID) (bool, error)

	// AppendCourse добавляет курс на позицию. Занятая позиция -
	// ErrJourneyPositionTaken (уникальный констрейнт решает гонки).
	AppendCourse(ctx context.Context, e *CourseEntry) error

	// NextPosition возвращает следующую свободную позицию (1 для пустой).
	NextPosition(ctx context.Context, journeyID shared.ID) (int, error)

	// ListCourses возвращает записи курсов journey в порядке позиций.
	ListCourses(ctx context.Context, journeyID shared.ID) ([]*CourseEntry, error)

	// Exists проверяет наличие journey. Используется леджером лайков.
	Exists(ctx context.Context, id shared.ID) (bool, error)
}
