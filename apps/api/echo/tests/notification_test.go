package tests

import (
	"net/http"
	"testing"
	"time"

	. "github.com/aslbekqoziboyev/lc-backend/apps/api/echo"
	"github.com/aslbekqoziboyev/lc-backend/core/notif"
	"github.com/aslbekqoziboyev/lc-backend/core/user"
	"github.com/aslbekqoziboyev/lc-backend/tests"
)

func Test_notificationApi_derive(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, user.RoleSuperAdmin, "Admin", "admin", "")
	teacher := testutil.CreateTeacher(t, usrRepo, "Bob", "bob", "Math", "2024-03-05", 500, false)
	token := getToken(t, admin)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/notifications/derive")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		}, rec)
	})

	t.Run("admin required", func(t *testing.T) {
		body := marchallObj(t, DeriveNotificationsRequest{})
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/derive", getToken(t, teacher), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		}, rec)
	})

	derive := func(prev []notif.Notification) []notif.Notification {
		t.Helper()
		body := marchallObj(t, DeriveNotificationsRequest{Notifications: prev})
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/derive", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp DeriveNotificationsResponse
		unmarchallObj(t, rec.Body.Bytes(), &resp)
		return resp.Notifications
	}

	// whether a reminder fires depends on today's proximity to the
	// teacher's payday; the handler folds over the wall clock
	payDay, _ := teacher.PayDay()
	daysRemaining := payDay - time.Now().Day()
	if daysRemaining < 0 {
		daysRemaining += 30
	}
	inWindow := daysRemaining >= 2 && daysRemaining <= 7
	onPayday := daysRemaining == 0

	notes := derive(nil)
	switch {
	case inWindow:
		if len(notes) != 1 || notes[0].Type != notif.TypeWarning {
			t.Fatalf("unexpected notifications: %+v", notes)
		}
		if notes[0].UserID != admin.ID || notes[0].TeacherID != teacher.ID {
			t.Errorf("unexpected recipient/teacher: %+v", notes[0])
		}
	case onPayday:
		if len(notes) != 1 || notes[0].Type != notif.TypeCritical {
			t.Fatalf("unexpected notifications: %+v", notes)
		}
	default:
		if len(notes) != 0 {
			t.Fatalf("unexpected notifications: %+v", notes)
		}
	}

	// posting the result back is a fixpoint
	again := derive(notes)
	if len(again) != len(notes) {
		t.Errorf("derive not idempotent: %+v vs %+v", notes, again)
	}

	// resolved entries survive the round trip untouched
	history := []notif.Notification{{
		ID: "pay-warn-x-1", UserID: admin.ID, TeacherID: "x",
		Type: notif.TypeSuccess, Status: notif.StatusResolved, Message: "Paid: old",
	}}
	got := derive(history)
	if len(got) != len(notes)+1 {
		t.Fatalf("len = %d; want %d", len(got), len(notes)+1)
	}
	if got[0] != history[0] {
		t.Errorf("history entry changed: %+v", got[0])
	}
}
