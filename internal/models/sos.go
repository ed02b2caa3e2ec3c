package models

import "time"

type SOSStatus string

const (
	SOSPending   SOSStatus = "Pending"
	SOSResponded SOSStatus = "Responded"
	SOSExpired   SOSStatus = "Expired"
)

type SOSRequest struct {
	ID               string
	Number           string // external SOS- reference
	UserID           string
	NearestStationID string
	Location         Location
	Status           SOSStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
