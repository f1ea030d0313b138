package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type GormRepo struct {
	DB *gorm.DB
}
