package domain

import "time"

// Contact is a saved transfer recipient in an identity's address book.
type Contact struct {
	ID        string    `json:"id" bson:"_id"`
	Owner     string    `json:"-" bson:"owner"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
