package course_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aslbekqoziboyev/lc-backend/core"
	"github.com/aslbekqoziboyev/lc-backend/core/course"
	"github.com/aslbekqoziboyev/lc-backend/storage/database/inmem"
)

func newSvc(t *testing.T) *course.Service {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return course.NewService(inmemdb.NewCourseRepository(db))
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(t)

	crs, err := svc.Create(ctx, course.NewCourse{
		Name: "Math", TeacherID: "t1", Schedule: "Mon/Wed 10:00", Price: 150,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.NotEmpty(t, crs.ID)
	assert.Equal(t, "Math", crs.Name)

	all, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	assert.Len(t, all, 1)

	price := 200.0
	got, err := svc.Update(ctx, crs.ID, course.UpdateCourse{Price: &price})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	assert.Equal(t, 200.0, got.Price)
	// unset fields stay untouched
	assert.Equal(t, "Math", got.Name)
	assert.Equal(t, "Mon/Wed 10:00", got.Schedule)

	if _, err := svc.Update(ctx, "nope", course.UpdateCourse{}); !core.IsNotFound(err) {
		t.Errorf("Update() error = %v, want not found", err)
	}

	if err := svc.Delete(ctx, crs.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, crs.ID); !core.IsNotFound(err) {
		t.Errorf("GetByID() error = %v, want not found", err)
	}
}
