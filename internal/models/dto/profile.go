package dto

import (
	"github.com/hongminglow/volcano-api/internal/models"
)

// PublicProfile is what anyone may see of a user.
type PublicProfile struct {
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// FullProfile adds the owner-only fields.
type FullProfile struct {
	PublicProfile
	Address *string `json:"address"`
	DOB     *string `json:"dob"`
}

// UpdatedProfile echoes a successful profile update.
type UpdatedProfile struct {
	Email string `json:"email"`
	models.Profile
}

// NewPublicProfile projects a user onto the public fields.
func NewPublicProfile(user models.User) PublicProfile {
	return PublicProfile{Email: user.Email, FirstName: user.FirstName, LastName: user.LastName}
}

// NewFullProfile projects a user onto every profile field.
func NewFullProfile(user models.User) FullProfile {
	out := FullProfile{PublicProfile: NewPublicProfile(user), Address: user.Address}
	if user.DOB != nil {
		dob := user.DOB.Format(models.DateLayout)
		out.DOB = &dob
	}
	return out
}
