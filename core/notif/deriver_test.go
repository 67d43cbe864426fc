package notif

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aslbekqoziboyev/lc-backend/core/user"
)

const adminID = "admin-1"

func teacher(id string, payDay int, salaryPaid bool) user.User {
	return user.User{
		ID:         id,
		Role:       user.RoleTeacher,
		Name:       "T " + id,
		CourseName: "Math",
		SalaryPaid: salaryPaid,
		JoinDate:   time.Date(2024, time.January, payDay, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
	}
}

// day picks a wall clock on the given day of month.
func day(d int) time.Time {
	return time.Date(2024, time.May, d, 10, 0, 0, 0, time.UTC)
}

func TestDerive_warningWindow(t *testing.T) {
	tests := []struct {
		name   string
		payDay int
		today  int
		want   int // expected notifications
	}{
		{name: "window start", payDay: 12, today: 10, want: 1},
		{name: "window end", payDay: 17, today: 10, want: 1},
		{name: "too early", payDay: 18, today: 10, want: 0},
		{name: "one day left", payDay: 11, today: 10, want: 0},
		{name: "month wraparound", payDay: 5, today: 28, want: 1}, // 5-28+30 = 7
		{name: "wraparound too early", payDay: 8, today: 28, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(nil, adminID, []user.User{teacher("t1", tt.payDay, false)}, day(tt.today))
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			if tt.want == 1 {
				n := got[0]
				assert.Equal(t, TypeWarning, n.Type)
				assert.Equal(t, StatusActive, n.Status)
				assert.Equal(t, adminID, n.UserID)
				assert.Equal(t, "t1", n.TeacherID)
				assert.True(t, strings.HasPrefix(n.ID, "pay-warn-t1-"))
			}
		})
	}
}

func TestDerive_idempotent(t *testing.T) {
	teachers := []user.User{teacher("t1", 12, false), teacher("t2", 15, false)}

	first := Derive(nil, adminID, teachers, day(10))
	assert.Len(t, first, 2)

	// re-deriving with unchanged inputs adds nothing
	second := Derive(first, adminID, teachers, day(10))
	assert.Equal(t, first, second)

	// nor does deriving again on a later day within the window
	third := Derive(second, adminID, teachers, day(11))
	assert.Equal(t, second, third)
}

func TestDerive_criticalReplacesWarning(t *testing.T) {
	teachers := []user.User{teacher("t1", 12, false)}

	notes := Derive(nil, adminID, teachers, day(10))
	assert.Len(t, notes, 1)
	assert.Equal(t, TypeWarning, notes[0].Type)

	// payday arrives: the warning gives way to a single critical entry
	notes = Derive(notes, adminID, teachers, day(12))
	assert.Len(t, notes, 1)
	assert.Equal(t, TypeCritical, notes[0].Type)
	assert.Equal(t, StatusActive, notes[0].Status)
	assert.True(t, strings.HasPrefix(notes[0].ID, "pay-crit-t1-"))

	// still only one critical on re-derivation
	notes = Derive(notes, adminID, teachers, day(12))
	assert.Len(t, notes, 1)
}

func TestDerive_paymentResolves(t *testing.T) {
	unpaid := []user.User{teacher("t1", 12, false)}
	paid := []user.User{teacher("t1", 12, true)}

	notes := Derive(nil, adminID, unpaid, day(10))
	assert.Len(t, notes, 1)
	origMsg := notes[0].Message

	notes = Derive(notes, adminID, paid, day(10))
	assert.Len(t, notes, 1)
	assert.Equal(t, StatusResolved, notes[0].Status)
	assert.Equal(t, TypeSuccess, notes[0].Type)
	assert.Equal(t, "Paid: "+origMsg, notes[0].Message)

	// resolving is one-shot; the prefix is not stacked
	notes = Derive(notes, adminID, paid, day(10))
	assert.Len(t, notes, 1)
	assert.Equal(t, "Paid: "+origMsg, notes[0].Message)

	// resolved entries are history; no new warning while paid
	notes = Derive(notes, adminID, paid, day(11))
	assert.Len(t, notes, 1)
}

func TestDerive_resolvedHistoryKeptOnEscalation(t *testing.T) {
	resolved := Notification{
		ID: "pay-warn-t1-1", UserID: adminID, TeacherID: "t1",
		Type: TypeSuccess, Status: StatusResolved, Message: "Paid: old",
	}

	notes := Derive([]Notification{resolved}, adminID, []user.User{teacher("t1", 12, false)}, day(12))
	assert.Len(t, notes, 2)
	assert.Equal(t, resolved, notes[0])
	assert.Equal(t, TypeCritical, notes[1].Type)
}

func TestDerive_skipsNonEligible(t *testing.T) {
	admin := user.User{ID: "a1", Role: user.RoleSuperAdmin, JoinDate: "2024-01-12", SalaryPaid: false}
	left := teacher("t1", 12, false)
	left.IsLeft = true
	noJoinDate := user.User{ID: "t2", Role: user.RoleTeacher}
	badJoinDate := user.User{ID: "t3", Role: user.RoleTeacher, JoinDate: "soon"}

	got := Derive(nil, adminID, []user.User{admin, left, noJoinDate, badJoinDate}, day(10))
	assert.Empty(t, got)
}

func TestDerive_keepsForeignNotifications(t *testing.T) {
	foreign := Notification{
		ID: "pay-warn-t9-1", UserID: adminID, TeacherID: "t9",
		Type: TypeWarning, Status: StatusActive, Message: "due soon",
	}

	got := Derive([]Notification{foreign}, adminID, []user.User{teacher("t1", 12, false)}, day(10))
	assert.Len(t, got, 2)
	assert.Equal(t, foreign, got[0])
}
