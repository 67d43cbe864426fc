package student_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aslbekqoziboyev/lc-backend/core"
	"github.com/aslbekqoziboyev/lc-backend/core/student"
	"github.com/aslbekqoziboyev/lc-backend/storage/database/inmem"
)

func newSvc(t *testing.T) *student.Service {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return student.NewService(inmemdb.NewStudentRepository(db))
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(t)

	std, err := svc.Create(ctx, student.NewStudent{Name: "Ali", TeacherID: "t1", CourseName: "Math"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.NotEmpty(t, std.ID)
	assert.Equal(t, "Ali", std.Name)
	assert.Equal(t, "t1", std.TeacherID)
	assert.False(t, std.Paid)
	assert.NotNil(t, std.Attendance)
	assert.Empty(t, std.Attendance)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(t)

	std, err := svc.Create(ctx, student.NewStudent{Name: "Ali", TeacherID: "t1"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	paid := true
	got, err := svc.Update(ctx, std.ID, student.UpdateStudent{Paid: &paid})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	assert.True(t, got.Paid)
	assert.Equal(t, "Ali", got.Name)

	// a non-nil attendance map replaces the stored one wholesale
	got, err = svc.Update(ctx, std.ID, student.UpdateStudent{
		Attendance: map[string]string{"2024-05-01": student.Present},
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	assert.Equal(t, map[string]string{"2024-05-01": student.Present}, got.Attendance)

	if _, err := svc.Update(ctx, "nope", student.UpdateStudent{}); !core.IsNotFound(err) {
		t.Errorf("Update() error = %v, want not found", err)
	}
}

func TestService_ToggleAttendance(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(t)

	std, err := svc.Create(ctx, student.NewStudent{Name: "Ali", TeacherID: "t1"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	date := "2024-05-01"

	// unmarked -> present
	std, err = svc.ToggleAttendance(ctx, std.ID, date)
	if err != nil {
		t.Fatalf("ToggleAttendance() failed: %v", err)
	}
	assert.Equal(t, student.Present, std.Attendance[date])

	// present -> absent
	std, err = svc.ToggleAttendance(ctx, std.ID, date)
	if err != nil {
		t.Fatalf("ToggleAttendance() failed: %v", err)
	}
	assert.Equal(t, student.Absent, std.Attendance[date])

	// absent -> present
	std, err = svc.ToggleAttendance(ctx, std.ID, date)
	if err != nil {
		t.Fatalf("ToggleAttendance() failed: %v", err)
	}
	assert.Equal(t, student.Present, std.Attendance[date])

	// other dates are untouched
	assert.Len(t, std.Attendance, 1)

	if _, err := svc.ToggleAttendance(ctx, "nope", date); !core.IsNotFound(err) {
		t.Errorf("ToggleAttendance() error = %v, want not found", err)
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(t)

	std, err := svc.Create(ctx, student.NewStudent{Name: "Ali", TeacherID: "t1"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := svc.Delete(ctx, std.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, std.ID); !core.IsNotFound(err) {
		t.Errorf("GetByID() error = %v, want not found", err)
	}

	// deleting a missing student is a no-op
	if err := svc.Delete(ctx, std.ID); err != nil {
		t.Errorf("Delete() failed: %v", err)
	}
}
