package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aslbekqoziboyev/lc-backend/core"
)

type Course struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TeacherID string    `json:"teacherId,omitempty" db:"teacher_id"` // unassigned when empty
	Schedule  string    `json:"schedule" db:"schedule"`
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name      string  `json:"name" validate:"required"`
	TeacherID string  `json:"teacherId"`
	Schedule  string  `json:"schedule" validate:"required"`
	Price     float64 `json:"price"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Schedule = core.CleanString(nc.Schedule)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing
// Course. nil fields are left untouched.
type UpdateCourse struct {
	Name      *string  `json:"name,omitempty"`
	TeacherID *string  `json:"teacherId,omitempty"`
	Schedule  *string  `json:"schedule,omitempty"`
	Price     *float64 `json:"price,omitempty"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	if uc.Name != nil {
		name := core.CleanString(*uc.Name)
		uc.Name = &name
	}
	if uc.Schedule != nil {
		sched := core.CleanString(*uc.Schedule)
		uc.Schedule = &sched
	}
	return validate.Struct(uc)
}
