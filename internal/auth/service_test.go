package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"todoTracker/internal/auth"
	"todoTracker/internal/logger"
	userinmemory "todoTracker/internal/repository/user/inmemory"
	"todoTracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitNop()
}

func newAuthService() *auth.Service {
	return auth.NewService(
		userinmemory.NewUserStorage(),
		auth.NewPasswordHasher(),
		auth.NewJWTManager(testSecret, time.Hour),
	)
}

func requireAuthCode(t *testing.T, err error, code string) {
	t.Helper()
	var businessErr *service.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, code, businessErr.Code)
}

// TestService_Register тестирует регистрацию с валидацией полей
func TestService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		email      string
		userName   string
		password   string
		expectCode string
	}{
		{
			name:     "success",
			email:    "alice@example.com",
			userName: "Alice",
			password: "s3cure-enough",
		},
		{
			name:       "error - malformed email",
			email:      "not-an-email",
			userName:   "Alice",
			password:   "s3cure-enough",
			expectCode: service.CodeValidation,
		},
		{
			name:       "error - empty name",
			email:      "alice@example.com",
			userName:   "",
			password:   "s3cure-enough",
			expectCode: service.CodeValidation,
		},
		{
			name:       "error - name too long",
			email:      "alice@example.com",
			userName:   strings.Repeat("n", 101),
			password:   "s3cure-enough",
			expectCode: service.CodeValidation,
		},
		{
			// имя в 100 кириллических букв занимает 200 байт, но по
			// символам укладывается в границу
			name:     "success - cyrillic name at char bound",
			email:    "alice@example.com",
			userName: strings.Repeat("ё", 100),
			password: "s3cure-enough",
		},
		{
			name:       "error - cyrillic name over char bound",
			email:      "alice@example.com",
			userName:   strings.Repeat("ё", 101),
			password:   "s3cure-enough",
			expectCode: service.CodeValidation,
		},
		{
			name:       "error - password too short",
			email:      "alice@example.com",
			userName:   "Alice",
			password:   "short",
			expectCode: service.CodeValidation,
		},
		{
			name:       "error - password over bcrypt bound",
			email:      "alice@example.com",
			userName:   "Alice",
			password:   strings.Repeat("p", 73),
			expectCode: service.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService()

			public, err := svc.Register(ctx, tt.email, tt.userName, tt.password)

			if tt.expectCode != "" {
				requireAuthCode(t, err, tt.expectCode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.email, public.Email)
			assert.Equal(t, tt.userName, public.Name)
			assert.NotEqual(t, "", public.ID.String())
		})
	}
}

// TestService_Register_EmailTaken тестирует отказ повторной регистрации
func TestService_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	_, err := svc.Register(ctx, "bob@example.com", "Bob", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob@example.com", "Bob Clone", "password456")
	requireAuthCode(t, err, service.CodeEmailTaken)

	// email нормализуется, регистр не помогает обойти уникальность
	_, err = svc.Register(ctx, "BOB@example.com", "Bob Shout", "password789")
	requireAuthCode(t, err, service.CodeEmailTaken)
}

// TestService_Login тестирует вход и выдачу токена
func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	registered, err := svc.Register(ctx, "carol@example.com", "Carol", "top-secret-pw")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "carol@example.com", "top-secret-pw")
	require.NoError(t, err)

	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, int64(3600), result.ExpiresIn)
	assert.Equal(t, registered.ID, result.User.ID)

	// выданный токен принимается обратно как идентичность Carol
	identity, err := svc.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, identity)
}

// TestService_Login_BadCredentials тестирует, что неизвестный email и
// неверный пароль неразличимы в ответе
func TestService_Login_BadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	_, err := svc.Register(ctx, "dave@example.com", "Dave", "real-password")
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nobody@example.com", "real-password")
	requireAuthCode(t, unknownErr, service.CodeUnauthorized)

	_, wrongErr := svc.Login(ctx, "dave@example.com", "wrong-password")
	requireAuthCode(t, wrongErr, service.CodeUnauthorized)

	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

// TestService_VerifyToken_Garbage тестирует отказ на мусорном токене
func TestService_VerifyToken_Garbage(t *testing.T) {
	svc := newAuthService()

	_, err := svc.VerifyToken("garbage.token.value")
	requireAuthCode(t, err, service.CodeUnauthorized)
}
