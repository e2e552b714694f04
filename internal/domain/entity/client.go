package entity

import "time"

// Client destinatario de los documentos de envío.
type Client struct {
	ID         string
	Name       string
	Address    string
	IsArchived bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
