package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/aslbekqoziboyev/lc-backend/core"
)

// Roles
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleTeacher    = "TEACHER"
)

var AllRoles = []string{RoleSuperAdmin, RoleTeacher}

const joinDateLayout = "2006-01-02"

type User struct {
	ID            string    `json:"id" db:"id"`
	Role          string    `json:"role" db:"role"`
	Name          string    `json:"name" db:"name"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email,omitempty" db:"email"`
	PasswordHash  []byte    `json:"-" db:"password_hash"`
	CenterName    string    `json:"centerName,omitempty" db:"center_name"`
	CourseName    string    `json:"courseName,omitempty" db:"course_name"`
	CoursePrice   float64   `json:"coursePrice,omitempty" db:"course_price"`
	MonthlySalary float64   `json:"monthlySalary,omitempty" db:"monthly_salary"`
	SalaryPaid    bool      `json:"salaryPaid" db:"salary_paid"`
	JoinDate      string    `json:"joinDate,omitempty" db:"join_date"` // YYYY-MM-DD
	IsLeft        bool      `json:"isLeft" db:"is_left"`
	Devices       []Device  `json:"devices"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

// SetPassword trims and hashes the given password.
// The stored credential is a bcrypt hash; the external success/failure
// contract (trimmed exact match) is unchanged.
func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(core.CleanString(pwd)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(core.CleanString(pwd)))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// PayDay returns the day-of-month component of JoinDate.
func (u *User) PayDay() (int, bool) {
	if u.JoinDate == "" {
		return 0, false
	}
	t, err := time.Parse(joinDateLayout, u.JoinDate)
	if err != nil {
		// full timestamps slip in from older clients
		if t, err = time.Parse(time.RFC3339, u.JoinDate); err != nil {
			return 0, false
		}
	}
	return t.Day(), true
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Role          string  `json:"role" validate:"required,oneof=SUPER_ADMIN TEACHER"`
	Name          string  `json:"name" validate:"required"`
	Username      string  `json:"username" validate:"required,alphanum_"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Password      string  `json:"password" validate:"required"`
	CenterName    string  `json:"centerName"`
	CourseName    string  `json:"courseName"`
	CoursePrice   float64 `json:"coursePrice"`
	MonthlySalary float64 `json:"monthlySalary"`
	SalaryPaid    bool    `json:"salaryPaid"`
	JoinDate      string  `json:"joinDate" validate:"omitempty,datetime=2006-01-02"`
	IsLeft        bool    `json:"isLeft"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Password = core.CleanString(nu.Password)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Username)
}

// UpdateUser defines what information may be provided to modify an existing User.
// nil fields are left untouched (partial shallow merge).
type UpdateUser struct {
	Role          *string  `json:"role,omitempty" validate:"omitempty,oneof=SUPER_ADMIN TEACHER"`
	Name          *string  `json:"name,omitempty"`
	Username      *string  `json:"username,omitempty" validate:"omitempty,alphanum_"`
	Email         *string  `json:"email,omitempty" validate:"omitempty,email"`
	Password      *string  `json:"password,omitempty"`
	CenterName    *string  `json:"centerName,omitempty"`
	CourseName    *string  `json:"courseName,omitempty"`
	CoursePrice   *float64 `json:"coursePrice,omitempty"`
	MonthlySalary *float64 `json:"monthlySalary,omitempty"`
	SalaryPaid    *bool    `json:"salaryPaid,omitempty"`
	JoinDate      *string  `json:"joinDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsLeft        *bool    `json:"isLeft,omitempty"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate, svc *Service) error {
	if uu.Username != nil {
		uname := core.CleanString(*uu.Username)
		uu.Username = &uname
	}
	if uu.Email != nil {
		email := core.CleanString(*uu.Email, true /* lower */)
		uu.Email = &email
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	if uu.Username != nil && *uu.Username != origUsr.Username {
		return svc.checkUniqueness(*uu.Username, origUsr)
	}
	return nil
}

type ResetUserPassword struct {
	Token    string `json:"token,omitempty" validate:"required"`
	UID      string `json:"uid,omitempty" validate:"required"`
	Password string `json:"password,omitempty" validate:"required"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
