package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Category struct {
	ID        gocql.UUID `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
