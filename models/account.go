package models

import "time"

// Account is a registered user of the platform. Authentication itself is
// an external concern; the account record carries the profile data that
// gates abstract submission.
type Account struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Phone       string    `json:"phone,omitempty"`
	Institution string    `json:"institution,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsProfileComplete reports whether the account holds the minimum profile
// data required before an abstract may be submitted.
func (a *Account) IsProfileComplete() bool {
	return a.Email != "" && a.Name != "" && a.Surname != "" && a.Institution != ""
}
