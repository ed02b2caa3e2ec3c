package models

import "time"

type Station struct {
	ID          string
	Name        string
	Address     string
	PhoneNumber string
	Landline    string
	Email       string
	Latitude    float64
	Longitude   float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
