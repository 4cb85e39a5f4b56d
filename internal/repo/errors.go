package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"artist-management/internal/domain"
)

// translate 把驱动层错误收敛成 domain 错误；其余原样返回
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrDuplicateEmail):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return domain.ErrDuplicateEmail
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrInvalidData),
		isBadData(err):
		return domain.ErrInvalidInput
	}
	return err
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，驱动未开启翻译时兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func isBadData(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key") ||
		strings.Contains(msg, "invalid input syntax") ||
		strings.Contains(msg, "out of range") ||
		strings.Contains(msg, "incorrect date value")
}
