package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash
	Name      string             `bson:"name" json:"name"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type UserPatch struct {
	Name      *string    `bson:"name,omitempty" json:"name" binding:"omitnil,min=2"`
	Role      *string    `bson:"role,omitempty" json:"role" binding:"omitnil,oneof=admin user"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"-"`
}

func (p UserPatch) Empty() bool { return p.Name == nil && p.Role == nil }

func (p UserPatch) Apply(u *User) {
	setString(&u.Name, p.Name)
	setString(&u.Role, p.Role)
	if p.UpdatedAt != nil {
		u.UpdatedAt = *p.UpdatedAt
	}
}

type UserFilter struct {
	Role string
}

func (f UserFilter) Match(u *User) bool {
	return f.Role == "" || u.Role == f.Role
}
