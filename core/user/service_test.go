package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aslbekqoziboyev/lc-backend/core"
)

type fakeRepo struct {
	users map[string]User
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]User)}
}

func (r *fakeRepo) CheckUsernameUniqueness(_ context.Context, username string, excludedUsers ...User) error {
	for _, usr := range r.users {
		if usr.Username != username {
			continue
		}
		var excluded bool
		for _, ex := range excludedUsers {
			if ex.ID == usr.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return ErrUsernameExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateUser(_ context.Context, usr User) (User, error) {
	r.users[usr.ID] = usr
	return usr, nil
}

func (r *fakeRepo) QueryAllUsers(_ context.Context) ([]User, error) {
	users := make([]User, 0, len(r.users))
	for _, usr := range r.users {
		users = append(users, usr)
	}
	return users, nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, id string) (User, error) {
	if usr, ok := r.users[id]; ok {
		return usr, nil
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) GetUserByUsername(_ context.Context, username string) (User, error) {
	for _, usr := range r.users {
		if usr.Username == username {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, usr := range r.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) UpdateUser(_ context.Context, usr User) (User, error) {
	if _, ok := r.users[usr.ID]; !ok {
		return User{}, ErrNotFound
	}
	r.users[usr.ID] = usr
	return usr, nil
}

func (r *fakeRepo) DeleteUserByID(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type fakeMailSvc struct {
	sent []*core.EmailMessage
}

func (svc *fakeMailSvc) SendMessages(messages ...*core.EmailMessage) {
	svc.sent = append(svc.sent, messages...)
}

func testConfig() *core.Config {
	return &core.Config{
		SecretKey:                 "secret",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		FrontendBaseURL:           "http://localhost:3000",
		MaxUserDevices:            3,
	}
}

func createUser(t *testing.T, svc *Service, nu NewUser) User {
	t.Helper()
	usr, err := svc.Create(context.Background(), nu)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return usr
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testConfig(), newFakeRepo(), nil)
	createUser(t, svc, NewUser{
		Role: RoleSuperAdmin, Name: "Alice", Username: "alice", Password: "secret  ",
	})

	tests := []struct {
		name    string
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "exact", uname: "alice", pwd: "secret"},
		{name: "padded inputs trimmed", uname: "  alice  ", pwd: " secret \n"},
		{name: "wrong password", uname: "alice", pwd: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown user", uname: "bob", pwd: "secret", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.uname, tt.pwd)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && usr.Username != "alice" {
				t.Errorf("Authenticate() username = %q, want %q", usr.Username, "alice")
			}
		})
	}
}

func TestService_RecordLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testConfig(), newFakeRepo(), nil)
	usr := createUser(t, svc, NewUser{
		Role: RoleSuperAdmin, Name: "Alice", Username: "alice", Password: "secret",
	})

	info := DeviceInfo{UserAgent: "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0", IP: "10.0.0.1"}

	usr, devID1, err := svc.RecordLogin(ctx, usr, info)
	if err != nil {
		t.Fatalf("RecordLogin() failed: %v", err)
	}
	if len(usr.Devices) != 1 {
		t.Fatalf("len(Devices) = %d, want 1", len(usr.Devices))
	}
	dev := usr.Devices[0]
	if dev.ID != devID1 || !dev.IsCurrent || dev.Name != "Windows PC (Chrome)" || dev.IP != "10.0.0.1" {
		t.Errorf("unexpected device: %+v", dev)
	}
	if !strings.HasPrefix(dev.ID, "dev-") {
		t.Errorf("device ID %q missing dev- prefix", dev.ID)
	}

	// a second login demotes the first device
	usr, devID2, err := svc.RecordLogin(ctx, usr, info)
	if err != nil {
		t.Fatalf("RecordLogin() failed: %v", err)
	}
	if len(usr.Devices) != 2 {
		t.Fatalf("len(Devices) = %d, want 2", len(usr.Devices))
	}
	for _, d := range usr.Devices {
		if wantCurrent := d.ID == devID2; d.IsCurrent != wantCurrent {
			t.Errorf("device %s: IsCurrent = %v, want %v", d.ID, d.IsCurrent, wantCurrent)
		}
	}

	// the list is capped; oldest entries are evicted first
	for i := 0; i < 5; i++ {
		if usr, _, err = svc.RecordLogin(ctx, usr, info); err != nil {
			t.Fatalf("RecordLogin() failed: %v", err)
		}
	}
	if max := testConfig().MaxUserDevices; len(usr.Devices) != max {
		t.Fatalf("len(Devices) = %d, want %d", len(usr.Devices), max)
	}
	for _, d := range usr.Devices {
		if d.ID == devID1 || d.ID == devID2 {
			t.Errorf("evicted device %s still present", d.ID)
		}
	}
}

func TestService_RemoveDevice(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testConfig(), newFakeRepo(), nil)
	usr := createUser(t, svc, NewUser{
		Role: RoleSuperAdmin, Name: "Alice", Username: "alice", Password: "secret",
	})

	usr, devID, err := svc.RecordLogin(ctx, usr, DeviceInfo{UserAgent: "curl/8.4.0", IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("RecordLogin() failed: %v", err)
	}

	if _, err := svc.RemoveDevice(ctx, usr.ID, "dev-nope"); err != ErrDeviceNotFound {
		t.Errorf("RemoveDevice() error = %v, wantErr %v", err, ErrDeviceNotFound)
	}

	usr, err = svc.RemoveDevice(ctx, usr.ID, devID)
	if err != nil {
		t.Fatalf("RemoveDevice() failed: %v", err)
	}
	if len(usr.Devices) != 0 {
		t.Errorf("len(Devices) = %d, want 0", len(usr.Devices))
	}

	if _, err := svc.RemoveDevice(ctx, usr.ID, devID); err != ErrDeviceNotFound {
		t.Errorf("RemoveDevice() error = %v, wantErr %v", err, ErrDeviceNotFound)
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testConfig(), newFakeRepo(), nil)
	usr := createUser(t, svc, NewUser{
		Role:          RoleTeacher,
		Name:          "Bob",
		Username:      "bob",
		Password:      "secret",
		CourseName:    "Math",
		MonthlySalary: 500,
		JoinDate:      "2024-03-05",
	})

	paid := true
	got, err := svc.Update(ctx, usr.ID, UpdateUser{SalaryPaid: &paid})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if !got.SalaryPaid {
		t.Error("SalaryPaid not updated")
	}
	// unset fields stay untouched
	if got.Name != "Bob" || got.CourseName != "Math" || got.MonthlySalary != 500 || got.JoinDate != "2024-03-05" {
		t.Errorf("unset fields changed: %+v", got)
	}
	if err := got.CheckPassword("secret"); err != nil {
		t.Error("password changed by unrelated update")
	}

	// empty password is ignored
	empty := ""
	if got, err = svc.Update(ctx, usr.ID, UpdateUser{Password: &empty}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if err := got.CheckPassword("secret"); err != nil {
		t.Error("password overwritten by empty value")
	}

	if _, err := svc.Update(ctx, "nope", UpdateUser{}); !core.IsNotFound(err) {
		t.Errorf("Update() error = %v, want not found", err)
	}
}

func TestService_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	mailSvc := &fakeMailSvc{}
	svc := NewService(testConfig(), newFakeRepo(), mailSvc)
	usr := createUser(t, svc, NewUser{
		Role: RoleSuperAdmin, Name: "Alice", Username: "alice",
		Email: "alice@test.test", Password: "old pass",
	})

	if err := svc.RequestPasswordReset(ctx, "Alice@Test.test "); err != nil {
		t.Fatalf("RequestPasswordReset() failed: %v", err)
	}
	if len(mailSvc.sent) != 1 {
		t.Fatalf("len(sent) = %d, want 1", len(mailSvc.sent))
	}

	token, err := MakeToken(svc.conf, usr)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	rp := ResetUserPassword{Token: token, UID: EncodeUID(usr), Password: "new pass"}
	if err := svc.ResetPassword(ctx, rp); err != nil {
		t.Fatalf("ResetPassword() failed: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "new pass"); err != nil {
		t.Errorf("Authenticate() with new password failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "old pass"); err != ErrInvalidCredentials {
		t.Errorf("Authenticate() with old password error = %v, want %v", err, ErrInvalidCredentials)
	}

	// the token is single-use
	if err := svc.ResetPassword(ctx, rp); err == nil {
		t.Error("ResetPassword() reuse succeeded, want validation error")
	} else if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("ResetPassword() reuse error = %v, want validation error", err)
	}
}
