package models

import "time"

type Officer struct {
	ID           string
	Number       string // external OFC- reference
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Rank         string
	StationID    string
	MobileNumber string
	RadioID      string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
