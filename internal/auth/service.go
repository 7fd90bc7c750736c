package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"
	"unicode/utf8"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/user"
	repo "todoTracker/internal/repository"
	"todoTracker/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	passwordMinLen = 8
	// bcrypt обрезает вход на 72 байтах
	passwordMaxLen = 72
	nameMaxLen     = 100
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// Service — коллаборатор аутентификации: регистрация, выдача и
// проверка токенов. Владельческих проверок здесь нет.
type Service struct {
	users  UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
}

func NewService(users UserRepository, hasher *PasswordHasher, jwt *JWTManager) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
	}
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	User        user.PublicUser
}

func (s *Service) Register(ctx context.Context, email, name, password string) (*user.PublicUser, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, service.NewValidationError("email", "некорректный формат")
	}
	if name == "" || utf8.RuneCountInString(name) > nameMaxLen {
		return nil, service.NewValidationError("name", fmt.Sprintf("имя должно быть от 1 до %d символов", nameMaxLen))
	}
	if len(password) < passwordMinLen {
		return nil, service.NewValidationError("password", fmt.Sprintf("пароль должен быть не короче %d символов", passwordMinLen))
	}
	if len(password) > passwordMaxLen {
		return nil, service.NewValidationError("password", fmt.Sprintf("пароль должен быть не длиннее %d символов", passwordMaxLen))
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("проверка занятости email: %w", err)
	}
	if exists {
		logger.Info("Auth: Попытка повторной регистрации", zap.String("email", email))
		return nil, service.NewEmailTaken(email)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("хэширование пароля: %w", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		// гонка двух регистраций на один email решается уникальным индексом
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, service.NewEmailTaken(email)
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	logger.Info("Auth: Пользователь зарегистрирован", zap.String("user_id", u.ID.String()))

	public := u.Public()
	return &public, nil
}

// Login не различает неизвестный email и неверный пароль в ответе.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, service.NewUnauthorized("Неверный email или пароль")
		}
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		logger.Info("Auth: Неудачная попытка входа", zap.String("user_id", u.ID.String()))
		return nil, service.NewUnauthorized("Неверный email или пароль")
	}

	token, err := s.jwt.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("выпуск токена: %w", err)
	}

	logger.Info("Auth: Успешный вход", zap.String("user_id", u.ID.String()))

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.jwt.TokenTTLSeconds(),
		User:        u.Public(),
	}, nil
}

// VerifyToken превращает Bearer-токен в идентичность запросившего.
func (s *Service) VerifyToken(token string) (uuid.UUID, error) {
	id, err := s.jwt.Verify(token)
	if err != nil {
		return uuid.Nil, service.NewUnauthorized("Недействительный или просроченный токен")
	}
	return id, nil
}
