package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies products. At least one category must exist at all
// times, and a category referenced by any product cannot be deleted.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
