package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aslbekqoziboyev/lc-backend/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("user not found")
	ErrDeviceNotFound     = core.NewNotFoundError("device not found")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// UpdateUser replaces the stored record; last write wins.
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUserByID(ctx context.Context, id string) error
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{conf: conf, repo: repo, mailSvc: mailSvc}
}

func (svc *Service) checkUniqueness(uname string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, exclUsers...); err != nil {
		if err == ErrUsernameExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:            uuid.NewString(),
		Role:          nu.Role,
		Name:          nu.Name,
		Username:      nu.Username,
		Email:         nu.Email,
		CenterName:    nu.CenterName,
		CourseName:    nu.CourseName,
		CoursePrice:   nu.CoursePrice,
		MonthlySalary: nu.MonthlySalary,
		SalaryPaid:    nu.SalaryPaid,
		JoinDate:      nu.JoinDate,
		IsLeft:        nu.IsLeft,
		Devices:       []Device{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(uname))
}

// Authenticate checks the given credentials against the store.
// Inputs are trimmed of surrounding whitespace before comparison.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(uname))
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by username")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

// RecordLogin appends a new current device to the user and persists it.
// The previously-current device is demoted; the list is capped and the
// oldest entries are evicted first. Returns the new device id.
func (svc *Service) RecordLogin(ctx context.Context, usr User, info DeviceInfo) (User, string, error) {
	dev := Device{
		ID:        NewDeviceID(),
		Name:      DeviceName(info.UserAgent),
		LastLogin: time.Now().UTC().Format(time.RFC3339),
		IP:        info.IP,
		IsCurrent: true,
	}

	devices := make([]Device, 0, len(usr.Devices)+1)
	for _, d := range usr.Devices {
		d.IsCurrent = false
		devices = append(devices, d)
	}
	devices = append(devices, dev)
	if max := svc.conf.MaxUserDevices; len(devices) > max {
		devices = devices[len(devices)-max:]
	}
	usr.Devices = devices
	usr.UpdatedAt = time.Now().UTC()

	usr, err := svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, "", errors.Wrap(err, "saving login device")
	}
	return usr, dev.ID, nil
}

// RemoveDevice deletes the matching device entry from the user's list.
// Tokens already issued to that device remain valid until expiry.
func (svc *Service) RemoveDevice(ctx context.Context, userID, deviceID string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	devices := make([]Device, 0, len(usr.Devices))
	var removed bool
	for _, d := range usr.Devices {
		if d.ID == deviceID {
			removed = true
			continue
		}
		devices = append(devices, d)
	}
	if !removed {
		return User{}, ErrDeviceNotFound
	}
	usr.Devices = devices
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// Update performs a partial shallow merge of the set fields into the stored
// record and returns the full updated record. No concurrency token; last
// write wins.
func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if uu.Role != nil {
		usr.Role = *uu.Role
	}
	if uu.Name != nil {
		usr.Name = *uu.Name
	}
	if uu.Username != nil {
		usr.Username = *uu.Username
	}
	if uu.Email != nil {
		usr.Email = *uu.Email
	}
	if uu.CenterName != nil {
		usr.CenterName = *uu.CenterName
	}
	if uu.CourseName != nil {
		usr.CourseName = *uu.CourseName
	}
	if uu.CoursePrice != nil {
		usr.CoursePrice = *uu.CoursePrice
	}
	if uu.MonthlySalary != nil {
		usr.MonthlySalary = *uu.MonthlySalary
	}
	if uu.SalaryPaid != nil {
		usr.SalaryPaid = *uu.SalaryPaid
	}
	if uu.JoinDate != nil {
		usr.JoinDate = *uu.JoinDate
	}
	if uu.IsLeft != nil {
		usr.IsLeft = *uu.IsLeft
	}
	if uu.Password != nil && *uu.Password != "" {
		if err := usr.SetPassword(*uu.Password); err != nil {
			return User{}, err
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteUserByID(ctx, id)
}

// RequestPasswordReset emails a reset link to the matching active user.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if usr.IsLeft {
		return ErrNotFound
	}

	token, err := MakeToken(svc.conf, usr)
	if err != nil {
		return errors.Wrap(err, "making reset token")
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Password Reset",
		TextContent: fmt.Sprintf(
			"Hi %s,\n\nFollow the link below to set a new password:\n%s/password-reset/%s/%s\n\n"+
				"If you did not request a reset, you can safely ignore this email.",
			usr.Name, svc.conf.FrontendBaseURL, EncodeUID(usr), token,
		),
	})
	return nil
}

func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if err := verifyToken(svc.conf, usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}
	if err := usr.SetPassword(rp.Password); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}
