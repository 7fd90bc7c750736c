package task_test

import (
	"strings"
	"testing"
	"time"

	"todoTracker/internal/models/task"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew тестирует создание задачи с проверкой границ полей
func TestNew(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name        string
		title       string
		description string
		expectError bool
	}{
		{
			name:        "success - minimal title",
			title:       "a",
			description: "",
			expectError: false,
		},
		{
			name:        "success - max title and description",
			title:       strings.Repeat("t", 200),
			description: strings.Repeat("d", 1000),
			expectError: false,
		},
		{
			name:        "error - empty title",
			title:       "",
			description: "",
			expectError: true,
		},
		{
			name:        "error - title too long",
			title:       strings.Repeat("t", 201),
			description: "",
			expectError: true,
		},
		{
			name:        "error - description too long",
			title:       "ok",
			description: strings.Repeat("d", 1001),
			expectError: true,
		},
		{
			// границы считаются в символах: 150 кириллических букв — это
			// 300 байт, но длина в пределах нормы
			name:        "success - cyrillic title within char bound",
			title:       strings.Repeat("я", 150),
			description: strings.Repeat("ц", 1000),
			expectError: false,
		},
		{
			name:        "error - cyrillic title over char bound",
			title:       strings.Repeat("я", 201),
			description: "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := task.New(ownerID, tt.title, tt.description)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, created)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, ownerID, created.OwnerID)
			assert.False(t, created.Completed)
			// в момент создания created_at и updated_at совпадают
			assert.Equal(t, created.CreatedAt, created.UpdatedAt)
			assert.True(t, created.Validate())
		})
	}
}

// TestToggleCompletion тестирует переключение статуса выполнения
func TestToggleCompletion(t *testing.T) {
	created, err := task.New(uuid.New(), "Toggle me", "")
	require.NoError(t, err)

	before := created.UpdatedAt

	got := created.ToggleCompletion()
	assert.True(t, got)
	assert.True(t, created.Completed)
	assert.False(t, created.UpdatedAt.Before(before))

	// двойное переключение возвращает исходное состояние
	got = created.ToggleCompletion()
	assert.False(t, got)
	assert.False(t, created.Completed)
}

// TestValidate тестирует диагностическую проверку после десериализации
func TestValidate(t *testing.T) {
	valid, err := task.New(uuid.New(), "Valid", "desc")
	require.NoError(t, err)
	assert.True(t, valid.Validate())

	broken := *valid
	broken.Title = ""
	assert.False(t, broken.Validate())

	broken = *valid
	broken.Description = strings.Repeat("x", 1001)
	assert.False(t, broken.Validate())

	broken = *valid
	broken.UpdatedAt = broken.CreatedAt.Add(-time.Hour)
	assert.False(t, broken.Validate())

	// задача без владельца не валидна
	broken = *valid
	broken.OwnerID = uuid.Nil
	assert.False(t, broken.Validate())
}

// TestValidateTitle_CharCount тестирует подсчёт длины в символах
func TestValidateTitle_CharCount(t *testing.T) {
	require.NoError(t, task.ValidateTitle(strings.Repeat("я", 200)))
	require.Error(t, task.ValidateTitle(strings.Repeat("я", 201)))

	// сообщение называет длину в символах, а не в байтах
	err := task.ValidateTitle(strings.Repeat("я", 201))
	assert.Contains(t, err.Error(), "получено 201")

	require.NoError(t, task.ValidateDescription(strings.Repeat("ц", 1000)))
	require.Error(t, task.ValidateDescription(strings.Repeat("ц", 1001)))
}

// TestJSONRoundTrip тестирует сериализацию в структурную форму и обратно
func TestJSONRoundTrip(t *testing.T) {
	created, err := task.New(uuid.New(), "Round trip", "desc")
	require.NoError(t, err)
	created.ID = 42

	data, err := created.ToJSON()
	require.NoError(t, err)

	restored, err := task.FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, created.ID, restored.ID)
	assert.Equal(t, created.OwnerID, restored.OwnerID)
	assert.Equal(t, created.Title, restored.Title)
	assert.Equal(t, created.Description, restored.Description)
	assert.Equal(t, created.Completed, restored.Completed)
	// created_at из формы сохраняется, а не генерируется заново
	assert.WithinDuration(t, created.CreatedAt, restored.CreatedAt, time.Second)
}

// TestFromJSON_Defaults тестирует значения по умолчанию в неполной форме
func TestFromJSON_Defaults(t *testing.T) {
	ownerID := uuid.New()
	data := []byte(`{"id": 1, "user_id": "` + ownerID.String() + `", "title": "Buy milk", "created_at": "2024-01-15T10:00:00Z"}`)

	restored, err := task.FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "", restored.Description)
	assert.False(t, restored.Completed)
	assert.Equal(t, 2024, restored.CreatedAt.Year())
	assert.False(t, restored.UpdatedAt.Before(restored.CreatedAt))
}

// TestFromJSON_Garbage тестирует отказ на мусорных данных
func TestFromJSON_Garbage(t *testing.T) {
	_, err := task.FromJSON([]byte(`not json`))
	assert.Error(t, err)
}

// TestPatch тестирует частичное применение полей
func TestPatch(t *testing.T) {
	created, err := task.New(uuid.New(), "Original", "original desc")
	require.NoError(t, err)

	assert.True(t, task.Patch{}.IsZero())

	newDesc := "new desc"
	patch := task.Patch{Description: &newDesc}
	assert.False(t, patch.IsZero())

	before := created.UpdatedAt
	patch.Apply(created)

	// незаданные поля не трогаются
	assert.Equal(t, "Original", created.Title)
	assert.Equal(t, "new desc", created.Description)
	assert.False(t, created.Completed)
	assert.False(t, created.UpdatedAt.Before(before))
}
