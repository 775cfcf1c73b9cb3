package domain

import "time"

// Shop присылает остатки по токену синхронизации
type Shop struct {
	ID        int64
	Name      string
	Slug      string
	Token     string
	CreatedAt time.Time
}
