package course

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aslbekqoziboyev/lc-backend/core"
)

var ErrNotFound = core.NewNotFoundError("course not found")

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourseByID(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		ID:        uuid.NewString(),
		Name:      nc.Name,
		TeacherID: nc.TeacherID,
		Schedule:  nc.Schedule,
		Price:     nc.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

// Update merges the set fields into the stored record; last write wins.
func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}

	if uc.Name != nil {
		crs.Name = *uc.Name
	}
	if uc.TeacherID != nil {
		crs.TeacherID = *uc.TeacherID
	}
	if uc.Schedule != nil {
		crs.Schedule = *uc.Schedule
	}
	if uc.Price != nil {
		crs.Price = *uc.Price
	}
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCourseByID(ctx, id)
}
