package entity

import (
	"fmt"
	"time"
)

// User is the aggregate root for the user domain.
// Field constraints are declared as validator tags and checked by pkg/validation
// before any write reaches storage.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" validate:"required,min=2,max=100"`
	Email     string    `db:"email" json:"email" validate:"required,min=6,max=100,email"`
	Age       int       `db:"age" json:"age" validate:"min=0,max=150"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const displayTimeLayout = "02-01-2006 15:04"

// String renders the user for console output, created_at in the local zone.
func (u User) String() string {
	return fmt.Sprintf("id=%d, name='%s', email='%s', age=%d, created_at=%s",
		u.ID, u.Name, u.Email, u.Age, u.CreatedAt.Local().Format(displayTimeLayout))
}
