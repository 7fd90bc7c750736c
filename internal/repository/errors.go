package repository

import "errors"

var (
	ErrNotFound   = errors.New("запись не найдена")
	ErrEmailTaken = errors.New("email уже зарегистрирован")
)
