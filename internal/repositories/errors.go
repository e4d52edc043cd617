package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup or conditional write matched nothing.
var ErrNotFound = errors.New("record not found")

// ErrUserNotFound is returned when the other side of a relation doesn't exist.
var ErrUserNotFound = errors.New("user not found")

func translateNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
