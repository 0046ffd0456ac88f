package models

type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
)

func (r Role) Valid() bool {
	return r == RoleTenant || r == RoleLandlord
}

// UserProfile is written by the sign-up flow and keyed by the identity
// provider's uid.
type UserProfile struct {
	ID    string `bson:"_id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Role  Role   `bson:"role" json:"role"`
}
