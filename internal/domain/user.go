package domain

import "time"

type User struct {
	ID        int64
	Email     string
	Role      Role
	CreatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
