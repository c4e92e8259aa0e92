package domain

import "time"

type Tenant struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	DateAdded time.Time `json:"dateAdded"`
	PosIDs    []string  `json:"posIds"`
}

type AccountManager struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"createdOn"`
}
