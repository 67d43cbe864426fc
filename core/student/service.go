package student

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aslbekqoziboyev/lc-backend/core"
)

var ErrNotFound = core.NewNotFoundError("student not found")

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudentByID(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		ID:         uuid.NewString(),
		Name:       ns.Name,
		TeacherID:  ns.TeacherID,
		CourseName: ns.CourseName,
		Paid:       ns.Paid,
		Attendance: map[string]string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

// Update merges the set fields into the stored record; last write wins.
func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	if us.Name != nil {
		std.Name = *us.Name
	}
	if us.TeacherID != nil {
		std.TeacherID = *us.TeacherID
	}
	if us.CourseName != nil {
		std.CourseName = *us.CourseName
	}
	if us.Paid != nil {
		std.Paid = *us.Paid
	}
	if us.Attendance != nil {
		std.Attendance = us.Attendance
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

// ToggleAttendance flips the attendance mark for the given date.
// A missing entry toggles to present; present toggles to absent and back.
func (svc *Service) ToggleAttendance(ctx context.Context, id, date string) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	if std.Attendance == nil {
		std.Attendance = map[string]string{}
	}
	if std.Attendance[date] == Present {
		std.Attendance[date] = Absent
	} else {
		std.Attendance[date] = Present
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudentByID(ctx, id)
}
