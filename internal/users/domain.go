package users

import "time"

// Roles a shop account can hold.
const (
	RolePartner = "partner"
	RoleManager = "manager"
)

// User is a shop account. Elevated marks accounts allowed to post
// receiving and verification actions through the ledger.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Role        string    `json:"role"`
	Elevated    bool      `json:"elevated"`
	IsActive    bool      `json:"is_active"`
	DateJoined  time.Time `json:"date_joined"`

	// Geolocation metadata captured from the browser on login.
	RegionName string   `json:"region_name,omitempty"`
	City       string   `json:"city,omitempty"`
	ZipCode    string   `json:"zip_code,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
	Timezone   string   `json:"timezone,omitempty"`
	ISP        string   `json:"isp,omitempty"`

	PasswordHash string `json:"-"`
}

// CreateRequest registers a new account.
type CreateRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=150"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	Role        string `json:"role" validate:"required,oneof=partner manager"`
	Elevated    bool   `json:"elevated"`
}

// LocationUpdate carries the geolocation fields a client may report.
// Absent fields leave the stored value unchanged.
type LocationUpdate struct {
	RegionName *string  `json:"region_name"`
	City       *string  `json:"city"`
	ZipCode    *string  `json:"zip_code"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	Timezone   *string  `json:"timezone"`
	ISP        *string  `json:"isp"`
}
