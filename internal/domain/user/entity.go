// Package user содержит минимальную модель пользователя.
// Аутентификация и сессии - вне ядра; здесь только то, на что ссылаются
// отзывы, обсуждения и лайки, плюс источник адреса для редактирования email.
package user

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// Простая проверка формата email, без попытки покрыть RFC целиком.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User представляет зарегистрированного пользователя платформы.
type User struct {
	// ID - идентификатор пользователя.
	ID shared.ID

	// Username - уникальное имя.
	Username string

	// Email - уникальный адрес. Наружу отдаётся только в отредактированном виде.
	Email string

	// CreatedAt - время регистрации.
	CreatedAt time.Time
}

// NewUser создаёт пользователя с валидацией.
func NewUser(username, email string) (*User, error) {
	u := &User{
		ID:        shared.NewID(),
		Username:  strings.TrimSpace(username),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate проверяет инварианты пользователя.
func (u *User) Validate() error {
	if len(u.Username) < 2 || len(u.Username) > 50 {
		return shared.WrapError("user", "Validate", shared.ErrInvalidInput, "username must be 2-50 characters", nil)
	}
	if !emailRegex.MatchString(u.Email) {
		return shared.ErrInvalidEmail
	}
	return nil
}

// RedactedEmail возвращает адрес в частично скрытом виде.
func (u *User) RedactedEmail() string {
	return shared.RedactEmail(u.Email)
}

// Repository определяет операции над пользователями.
type Repository interface {
	// Create сохраняет нового пользователя.
	// Возвращает ErrAlreadyExists при конфликте username/email.
	Create(ctx context.Context, u *User) error

	// GetByID возвращает пользователя по ID.
	GetByID(ctx context.Context, id shared.ID) (*User, error)

	// GetByIDs возвращает пользователей по списку ID.
	GetByIDs(ctx context.Context, ids []shared.ID) (map[shared.ID]*User, error)

	// Exists проверяет наличие пользователя.
	Exists(ctx context.Context, id shared.ID) (bool, error)
}
