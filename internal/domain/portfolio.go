package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Portfolio represents a named collection of investments
type Portfolio struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

// Validate ensures the portfolio adheres to domain rules
func (p *Portfolio) Validate() error {
	if p.Name == "" {
		return errors.New("portfolio name cannot be empty")
	}
	return nil
}
