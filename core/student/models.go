package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aslbekqoziboyev/lc-backend/core"
)

// Attendance values
const (
	Present = "present"
	Absent  = "absent"
)

type Student struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	TeacherID string `json:"teacherId" db:"teacher_id"`
	// CourseName is a denormalized snapshot of the teacher's course at
	// creation time; it is not kept in sync with later teacher changes.
	CourseName string            `json:"courseName,omitempty" db:"course_name"`
	Paid       bool              `json:"paid" db:"paid"`
	Attendance map[string]string `json:"attendance"` // date (YYYY-MM-DD) -> present|absent
	CreatedAt  time.Time         `json:"createdAt" db:"created_at"`  // UTC
	UpdatedAt  time.Time         `json:"updatedAt" db:"updated_at"`  // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name       string `json:"name" validate:"required"`
	TeacherID  string `json:"teacherId" validate:"required"`
	CourseName string `json:"courseName"`
	Paid       bool   `json:"paid"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. nil fields are left untouched; a non-nil Attendance
// replaces the stored mapping wholesale.
type UpdateStudent struct {
	Name       *string           `json:"name,omitempty"`
	TeacherID  *string           `json:"teacherId,omitempty"`
	CourseName *string           `json:"courseName,omitempty"`
	Paid       *bool             `json:"paid,omitempty"`
	Attendance map[string]string `json:"attendance,omitempty"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		us.Name = &name
	}
	return validate.Struct(us)
}
