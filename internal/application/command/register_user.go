package command

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER COMMAND
// Минимальная регистрация: имя и email, оба уникальны. Аутентификация
// и сессии - вне ядра системы.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserCommand содержит данные нового пользователя.
type RegisterUserCommand struct {
	// Username - уникальное имя (2-50 символов).
	Username string

	// Email - уникальный адрес.
	Email string
}

// RegisterUserResult содержит результат регистрации.
type RegisterUserResult struct {
	// UserID - ID нового пользователя.
	UserID shared.ID `json:"user_id"`

	// RegisteredAt - время регистрации.
	RegisteredAt time.Time `json:"registered_at"`
}

// RegisterUserHandler обрабатывает RegisterUserCommand.
type RegisterUserHandler struct {
	userRepo user.Repository
}

// NewRegisterUserHandler создаёт новый обработчик.
func NewRegisterUserHandler(userRepo user.Repository) *RegisterUserHandler {
	return &RegisterUserHandler{userRepo: userRepo}
}

// Handle выполняет регистрацию пользователя.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	u, err := user.NewUser(cmd.Username, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("register_user: %w", err)
	}

	// Конфликт username/email репозиторий превращает в ErrAlreadyExists.
	if err := h.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register_user: %w", err)
	}

	return &RegisterUserResult{
		UserID:       u.ID,
		RegisteredAt: u.CreatedAt,
	}, nil
}
