package task

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	TitleMinLen       = 1
	TitleMaxLen       = 200
	DescriptionMaxLen = 1000
)

type Task struct {
	ID          int64     `json:"id" db:"id"`
	OwnerID     uuid.UUID `json:"user_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// New создаёт задачу с проверкой границ полей.
// completed всегда false, created_at == updated_at в момент создания.
func New(ownerID uuid.UUID, title, description string) (*Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Границы полей считаются в символах, не в байтах: кириллическое
// название занимает вдвое больше байт при той же длине.
func ValidateTitle(title string) error {
	length := utf8.RuneCountInString(title)
	if length < TitleMinLen || length > TitleMaxLen {
		return fmt.Errorf("название должно быть от %d до %d символов, получено %d",
			TitleMinLen, TitleMaxLen, length)
	}
	return nil
}

func ValidateDescription(description string) error {
	length := utf8.RuneCountInString(description)
	if length > DescriptionMaxLen {
		return fmt.Errorf("описание не должно превышать %d символов, получено %d",
			DescriptionMaxLen, length)
	}
	return nil
}

// ToggleCompletion безусловно переключает статус выполнения
// и возвращает новое значение.
func (t *Task) ToggleCompletion() bool {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now()
	return t.Completed
}

// Validate повторно проверяет инварианты полей после десериализации.
// Диагностика, а не конструктор: возвращает false вместо ошибки.
func (t *Task) Validate() bool {
	if t.OwnerID == uuid.Nil {
		return false
	}
	if ValidateTitle(t.Title) != nil {
		return false
	}
	if ValidateDescription(t.Description) != nil {
		return false
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return false
	}
	return true
}

func (t *Task) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

// FromJSON восстанавливает задачу из структурной формы.
// Отсутствующие description и completed получают нулевые значения,
// created_at из формы сохраняется и никогда не генерируется заново.
func FromJSON(data []byte) (*Task, error) {
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("десериализация задачи: %w", err)
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}

	return &t, nil
}

func (t *Task) String() string {
	status := "○"
	if t.Completed {
		status = "✓"
	}
	return fmt.Sprintf("[%s] ID: %d | %s", status, t.ID, t.Title)
}
