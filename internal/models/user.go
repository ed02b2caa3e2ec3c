package models

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleOfficer Role = "officer"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "Active"
	AccountInactive  AccountStatus = "Inactive"
	AccountSuspended AccountStatus = "Suspended"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountInactive, AccountSuspended:
		return true
	}
	return false
}

type User struct {
	ID           string
	Number       string // external USR- reference
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
