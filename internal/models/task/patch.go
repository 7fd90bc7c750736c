package task

import "time"

// Patch — явная структура частичного обновления: поле либо задано,
// либо отсутствует. nil означает "не трогать", не "сбросить".
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

func (p Patch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply накладывает заданные поля и обновляет updated_at.
// Границы полей здесь не проверяются, это обязанность сервиса.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = time.Now()
}
