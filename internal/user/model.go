package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persisted profile document. PasswordHash is excluded from
// every JSON response; only the bson codec sees it.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Handle       string             `json:"handle" bson:"handle"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Description  string             `json:"description" bson:"description"`
	Links        []string           `json:"links" bson:"links"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// PublicProfile is the subset of User exposed on the public handle lookup.
// It carries no id, email, password hash or timestamps.
type PublicProfile struct {
	Handle      string   `json:"handle"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Links       []string `json:"links"`
	Image       string   `json:"image,omitempty"`
}

// Public projects the user onto its public profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		Handle:      u.Handle,
		Name:        u.Name,
		Description: u.Description,
		Links:       u.Links,
		Image:       u.Image,
	}
}
