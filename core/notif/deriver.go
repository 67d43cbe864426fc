package notif

import (
	"fmt"
	"time"

	"github.com/aslbekqoziboyev/lc-backend/core/user"
)

// Salary reminders fire when the payday is this many days away.
const (
	warnWindowMin = 2
	warnWindowMax = 7
)

// Derive folds the previous notification set against the current teacher
// records and the wall clock, and returns the new set. It is pure and
// idempotent: re-running it with unchanged inputs returns an equal set.
// Resolved notifications are retained as history, never deleted.
//
// Only SUPER_ADMIN viewers get reminders; adminID becomes the recipient of
// any entry created here.
func Derive(prev []Notification, adminID string, teachers []user.User, now time.Time) []Notification {
	out := make([]Notification, len(prev))
	copy(out, prev)

	today := now.Day()

	for _, teacher := range teachers {
		if !teacher.IsTeacher() || teacher.IsLeft {
			continue
		}
		payDay, ok := teacher.PayDay()
		if !ok {
			continue
		}

		// Days until payday. The +30 wraparound approximates "next month";
		// it is calendar-naive on purpose, to keep reminder timing
		// backward-compatible with the legacy client.
		daysRemaining := payDay - today
		if daysRemaining < 0 {
			daysRemaining += 30
		}

		activeIdx := findActive(out, teacher.ID)

		switch {
		case !teacher.SalaryPaid && daysRemaining >= warnWindowMin && daysRemaining <= warnWindowMax:
			if activeIdx < 0 {
				out = append(out, Notification{
					ID:        warningID(teacher.ID, now.Unix()),
					UserID:    adminID,
					TeacherID: teacher.ID,
					Type:      TypeWarning,
					Message: fmt.Sprintf("Teacher %s's salary for the %s course is due soon (%d days left)",
						teacher.Name, teacher.CourseName, daysRemaining),
					Date:   now.Format(time.RFC3339),
					Status: StatusActive,
				})
			}

		case !teacher.SalaryPaid && daysRemaining == 0:
			// payday: escalate - active warnings give way to one critical
			out = removeActiveWarnings(out, teacher.ID)
			if findActiveOfType(out, teacher.ID, TypeCritical) < 0 {
				out = append(out, Notification{
					ID:        criticalID(teacher.ID, now.Unix()),
					UserID:    adminID,
					TeacherID: teacher.ID,
					Type:      TypeCritical,
					Message: fmt.Sprintf("Don't forget to pay teacher %s's salary for the %s course today!",
						teacher.Name, teacher.CourseName),
					Date:   now.Format(time.RFC3339),
					Status: StatusActive,
				})
			}

		case teacher.SalaryPaid && activeIdx >= 0:
			out[activeIdx].Status = StatusResolved
			out[activeIdx].Type = TypeSuccess
			out[activeIdx].Message = "Paid: " + out[activeIdx].Message
		}
	}
	return out
}

// findActive returns the index of the active notification for the given
// teacher, of any type, or -1.
func findActive(notes []Notification, teacherID string) int {
	for i := range notes {
		if notes[i].TeacherID == teacherID && notes[i].IsActive() {
			return i
		}
	}
	return -1
}

func findActiveOfType(notes []Notification, teacherID, typ string) int {
	for i := range notes {
		if notes[i].TeacherID == teacherID && notes[i].Type == typ && notes[i].IsActive() {
			return i
		}
	}
	return -1
}

// removeActiveWarnings drops the teacher's active warnings; resolved history
// stays untouched.
func removeActiveWarnings(notes []Notification, teacherID string) []Notification {
	kept := notes[:0]
	for _, n := range notes {
		if n.TeacherID == teacherID && n.Type == TypeWarning && n.IsActive() {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}
