// Package discussion содержит доменную модель обсуждений и веток ответов.
// Обсуждение может ссылаться на ноль, один или несколько курсов; ответы
// образуют дерево произвольной глубины. Удаление ответа - это надгробие,
// а не физическое удаление: структура ветки сохраняется всегда.
package discussion

import (
	"strings"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

// TombstoneText - сторожевое значение текста удалённого ответа.
const TombstoneText = "[deleted]"

// AnonymousAuthor - плейсхолдер автора для надгробий при отдаче наружу.
const AnonymousAuthor = "anonymous"

// ══════════════════════════════════════════════════════════════════════════════
// DISCUSSION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Discussion представляет тему обсуждения.
type Discussion struct {
	// ID - идентификатор обсуждения.
	ID shared.ID

	// UserID - автор темы.
	UserID shared.ID

	// Title - заголовок. Обязательное поле.
	Title string

	// Description - текст темы. Обязательное поле.
	Description string

	// CourseIDs - курсы, на которые ссылается тема (many-to-many, может быть пусто).
	CourseIDs []shared.ID

	// JourneyID - необязательная ссылка на learning journey.
	JourneyID *shared.ID

	// Embedding - вектор для семантического поиска.
	Embedding shared.Embedding

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// NewDiscussion создаёт тему с валидацией.
func NewDiscussion(userID shared.ID, title, description string, embedding shared.Embedding) (*Discussion, error) {
	d := &Discussion{
		ID:          shared.NewID(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Embedding:   embedding,
		CreatedAt:   time.Now().UTC(),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate проверяет инварианты темы.
func (d *Discussion) Validate() error {
	if !d.UserID.IsValid() {
		return shared.WrapError("discussion", "Validate", shared.ErrInvalidID, "author is required", nil)
	}
	if d.Title == "" || d.Description == "" {
		return shared.ErrEmptyDiscussionText
	}
	if !d.Embedding.IsValid() {
		return shared.WrapError("discussion", "Validate", shared.ErrValidation, "embedding must have exactly 768 dimensions", nil)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REPLY ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// ReplyState - состояние ответа.
// Единственный переход: Active -> Tombstoned, необратимый.
type ReplyState string

const (
	// ReplyActive - обычный ответ.
	ReplyActive ReplyState = "active"
	// ReplyTombstoned - текст заменён надгробием, ряд и дети сохранены.
	ReplyTombstoned ReplyState = "tombstoned"
)

// Reply представляет ответ в обсуждении. ParentReplyID == nil означает
// ответ верхнего уровня; иначе ответ на ответ (дерево, не два уровня).
type Reply struct {
	// ID - идентификатор ответа.
	ID shared.ID

	// UserID - автор ответа.
	UserID shared.ID

	// DiscussionID - обсуждение, к которому относится ответ.
	DiscussionID shared.ID

	// ParentReplyID - родительский ответ (nil для верхнего уровня).
	ParentReplyID *shared.ID

	// Text - текст ответа. Для надгробий равен TombstoneText.
	Text string

	// Embedding - вектор для семантического поиска.
	Embedding shared.Embedding

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// NewReply создаёт ответ с валидацией.
func NewReply(userID, discussionID shared.ID, parentReplyID *shared.ID, text string, embedding shared.Embedding) (*Reply, error) {
	r := &Reply{
		ID:            shared.NewID(),
		UserID:        userID,
		DiscussionID:  discussionID,
		ParentReplyID: parentReplyID,
		Text:          strings.TrimSpace(text),
		Embedding:     embedding,
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate проверяет инварианты ответа.
func (r *Reply) Validate() error {
	if !r.UserID.IsValid() {
		return shared.WrapError("reply", "Validate", shared.ErrInvalidID, "author is required", nil)
	}
	if !r.DiscussionID.IsValid() {
		return shared.WrapError("reply", "Validate", shared.ErrInvalidID, "discussion is required", nil)
	}
	if r.Text == "" {
		return shared.ErrEmptyReplyText
	}
	if !r.Embedding.IsValid() {
		return shared.WrapError("reply", "Validate", shared.ErrValidation, "embedding must have exactly 768 dimensions", nil)
	}
	return nil
}

// State возвращает текущее состояние ответа.
// Состояние выводится из текста: это и есть надгробие в хранилище.
func (r *Reply) State() ReplyState {
	if r.Text == TombstoneText {
		return ReplyTombstoned
	}
	return ReplyActive
}

// IsTombstoned возвращает true для надгробий.
func (r *Reply) IsTombstoned() bool {
	return r.State() == ReplyTombstoned
}

// CanTombstone проверяет, что actor имеет право удалить ответ.
// Надгробие может поставить только автор.
func (r *Reply) CanTombstone(actor shared.ID) error {
	if r.UserID != actor {
		return shared.ErrNotReplyOwner
	}
	return nil
}

// PublicAuthor возвращает идентичность автора для отдачи наружу:
// для надгробий автор анонимизируется.
func (r *Reply) PublicAuthor(username string) string {
	if r.IsTombstoned() {
		return AnonymousAuthor
	}
	return username
}
