package customer

import "time"

// Customer links the external caller identity to the store's own record.
// Orders belong to a customer forever, so the record is never reassigned
// to a different user.
type Customer struct {
	ID        int        `json:"id" db:"customer_id"`
	UserID    string     `json:"-" db:"user_id"`
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	Email     string     `json:"email" db:"email"`
	Phone     string     `json:"phone" db:"phone"`
	BirthDate *time.Time `json:"birthDate" db:"birth_date"`
}

type CustomerNew struct {
	FirstName string     `json:"firstName" validate:"required,max=100"`
	LastName  string     `json:"lastName" validate:"required,max=100"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	Phone     string     `json:"phone" validate:"required,max=255"`
	BirthDate *time.Time `json:"birthDate"`
}

type CustomerUp struct {
	FirstName *string    `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string    `json:"lastName" validate:"omitempty,max=100"`
	Email     *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string    `json:"phone" validate:"omitempty,max=255"`
	BirthDate *time.Time `json:"birthDate"`
}
