package command

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/journey"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE JOURNEY COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateJourneyCommand содержит данные новой learning journey.
type CreateJourneyCommand struct {
	// UserID - владелец.
	UserID string

	// Title - название. Обязательное поле.
	Title string

	// Description - описание. Обязательное поле.
	Description string

	// CorrelationID для трассировки.
	CorrelationID string
}

// CreateJourneyResult содержит результат создания.
type CreateJourneyResult struct {
	// JourneyID - ID новой journey.
	JourneyID shared.ID `json:"journey_id"`

	// CreatedAt - время создания.
	CreatedAt time.Time `json:"created_at"`
}

// CreateJourneyHandler обрабатывает CreateJourneyCommand.
type CreateJourneyHandler struct {
	journeyRepo journey.Repository
	userRepo    user.Repository
	publisher   shared.EventPublisher
}

// NewCreateJourneyHandler создаёт новый обработчик.
func NewCreateJourneyHandler(
	journeyRepo journey.Repository,
	userRepo user.Repository,
	publisher shared.EventPublisher,
) *CreateJourneyHandler {
	return &CreateJourneyHandler{
		journeyRepo: journeyRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// Handle выполняет создание journey.
func (h *CreateJourneyHandler) Handle(ctx context.Context, cmd CreateJourneyCommand) (*CreateJourneyResult, error) {
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("create_journey: %w", err)
	}

	exists, err := h.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("create_journey: %w", err)
	}
	if !exists {
		return nil, shared.ErrUserNotFound
	}

	j, err := journey.NewJourney(userID, cmd.Title, cmd.Description)
	if err != nil {
		return nil, fmt.Errorf("create_journey: %w", err)
	}

	if err := h.journeyRepo.Create(ctx, j); err != nil {
		return nil, fmt.Errorf("create_journey: %w", err)
	}

	if h.publisher != nil {
		event := shared.NewBaseEvent(shared.EventJourneyCreated, j.ID.String())
		if cmd.CorrelationID != "" {
			event = event.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(ctx, event)
	}

	return &CreateJourneyResult{
		JourneyID: j.ID,
		CreatedAt: j.CreatedAt,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// APPEND JOURNEY COURSE COMMAND
// Позиция положительна и уникальна в рамках journey. Нулевая позиция
// означает "в конец": следующую свободную позицию выдаёт хранилище.
// Гонку за одну позицию разрешает уникальный констрейнт.
// ══════════════════════════════════════════════════════════════════════════════

// AppendJourneyCourseCommand добавляет курс в journey.
type AppendJourneyCourseCommand struct {
	// JourneyID - journey, в которую добавляется курс.
	JourneyID string

	// UserID - инициатор. Добавлять может только владелец.
	UserID string

	// CourseID - курс.
	CourseID string

	// Position - позиция курса (0 = в конец).
	Position int

	// CorrelationID для трассировки.
	CorrelationID string
}

// AppendJourneyCourseResult содержит результат добавления.
type AppendJourneyCourseResult struct {
	// EntryID - ID новой записи.
	EntryID shared.ID `json:"entry_id"`

	// Position - позиция, на которую встал курс.
	Position int `json:"position"`
}

// AppendJourneyCourseHandler обрабатывает AppendJourneyCourseCommand.
type AppendJourneyCourseHandler struct {
	journeyRepo journey.Repository
	courseRepo  course.Repository
	publisher   shared.EventPublisher
}

// NewAppendJourneyCourseHandler создаёт новый обработчик.
func NewAppendJourneyCourseHandler(
	journeyRepo journey.Repository,
	courseRepo course.Repository,
	publisher shared.EventPublisher,
) *AppendJourneyCourseHandler {
	return &AppendJourneyCourseHandler{
		journeyRepo: journeyRepo,
		courseRepo:  courseRepo,
		publisher:   publisher,
	}
}

// Handle выполняет добавление курса в journey.
func (h *AppendJourneyCourseHandler) Handle(ctx context.Context, cmd AppendJourneyCourseCommand) (*AppendJourneyCourseResult, error) {
	journeyID, err := shared.ParseID(cmd.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("append_journey_course: %w", err)
	}
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("append_journey_course: %w", err)
	}
	courseID, err := shared.ParseID(cmd.CourseID)
	if err != nil {
		return nil, fmt.Errorf("append_journey_course: %w", err)
	}

	j, err := h.journeyRepo.GetByID(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("append_journey_course: %w", err)
	}
	if j.UserID != userID {
		return nil, shared.WrapError("journey", "AppendCourse", shared.ErrForbidden, "only the journey owner may add courses", nil)
	}

	courseExists, err := h.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("append_journey_course: %w", err)
	}
	if !courseExists {
		return nil, shared.ErrCourseNotFound
	}

	position := cmd.Position
	if position == 0 {
		position, err = h.journeyRepo.NextPosition(ctx, journeyID)
		if err != nil {
			return nil, fmt.Errorf("append_journey_course: %w", err)
		}
	}

	entry, err := journey.NewCourseEntry(journeyID, courseID, position)
	if err != nil {
		return nil, fmt.Errorf("append_journey_course: %w", err)
	}

	if err := h.journeyRepo.AppendCourse(ctx, entry); err != nil {
		return nil, fmt.Errorf("append_journey_course: %w", err)
	}

	if h.publisher != nil {
		event := shared.NewBaseEvent(shared.EventJourneyCourseAdded, journeyID.String())
		if cmd.CorrelationID != "" {
			event = event.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(ctx, event)
	}

	return &AppendJourneyCourseResult{
		EntryID:  entry.ID,
		Position: position,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE JOURNEY COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteJourneyCommand удаляет journey вместе с записями курсов.
// Удалять может только владелец. Обсуждения, ссылавшиеся на journey,
// остаются: ссылка обнуляется каскадом в базе.
type DeleteJourneyCommand struct {
	// JourneyID - journey для удаления.
	JourneyID string

	// UserID - инициатор.
	UserID string
}

// DeleteJourneyResult содержит результат удаления.
type DeleteJourneyResult struct {
	// Deleted - true, если ряд существовал и был удалён.
	Deleted bool `json:"deleted"`
}

// DeleteJourneyHandler обрабатывает DeleteJourneyCommand.
type DeleteJourneyHandler struct {
	journeyRepo journey.Repository
}

// NewDeleteJourneyHandler создаёт новый обработчик.
func NewDeleteJourneyHandler(journeyRepo journey.Repository) *DeleteJourneyHandler {
	return &DeleteJourneyHandler{journeyRepo: journeyRepo}
}

// Handle выполняет удаление journey.
func (h *DeleteJourneyHandler) Handle(ctx context.Context, cmd DeleteJourneyCommand) (*DeleteJourneyResult, error) {
	journeyID, err := shared.ParseID(cmd.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("delete_journey: %w", err)
	}
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("delete_journey: %w", err)
	}

	j, err := h.journeyRepo.GetByID(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("delete_journey: %w", err)
	}
	if j.UserID != userID {
		return nil, shared.WrapError("journey", "Delete", shared.ErrForbidden, "only the journey owner may delete it", nil)
	}

	deleted, err := h.journeyRepo.Delete(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("delete_journey: %w", err)
	}

	return &DeleteJourneyResult{Deleted: deleted}, nil
}
