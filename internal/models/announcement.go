package models

import "time"

type Announcement struct {
	ID        string
	Number    string // external ANN- reference
	StationID string // optional, empty means system-wide
	Title     string
	Details   string
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
