package discussion

import (
	"context"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над обсуждениями.
type Repository interface {
	// Create сохраняет новую тему вместе со ссылками на курсы
	// (таблица course_discussions) в одной транзакции.
	Create(ctx context.Context, d *Discussion) error

	// GetByID возвращает тему по ID вместе со ссылками на курсы.
	// Возвращает ErrDiscussionNotFound, если темы нет.
	GetByID(ctx context.Context, id shared.ID) (*Discussion, error)

	// Update обновляет заголовок, текст и эмбеддинг темы.
	Update(ctx context.Context, d *Discussion) error

	// Delete удаляет тему. Возвращает true, если ряд существовал.
	Delete(ctx context.Context, id shared.ID) (bool, error)

	// ListForCourse возвращает темы, ссылающиеся на курс, по времени создания.
	ListForCourse(ctx context.Context, courseID shared.ID, page shared.Pagination) ([]*Discussion, int, error)

	// Exists проверяет наличие темы. Используется леджером лайков
	// и проверкой родителя при создании ответа.
	Exists(ctx context.Context, id shared.ID) (bool, error)
}

// ReplyRepository определяет операции над ответами.
type ReplyRepository interface {
	// Create сохраняет новый ответ. Родительское обсуждение должно
	// существовать; родительский ответ (если указан) тоже - надгробия
	// при этом остаются допустимыми родителями.
	Create(ctx context.Context, r *Reply) error

	// GetByID возвращает ответ по ID.
	GetByID(ctx context.Context, id shared.ID) (*Reply, error)

	// ListForDiscussion возвращает страницу ответов обсуждения в порядке
	// создания, вместе с общим количеством до пагинации.
	ListForDiscussion(ctx context.Context, discussionID shared.ID, page shared.Pagination) ([]*Reply, int, error)

	// Tombstone заменяет текст ответа сторожевым значением.
	// Ряд и дети не трогаются. Идемпотентно по эффекту.
	Tombstone(ctx context.Context, id shared.ID) error

	// Exists проверяет наличие ответа.
	Exists(ctx context.Context, id shared.ID) (bool, error)
}
