package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/aslbekqoziboyev/lc-backend/core/user"
)

type userRow struct {
	ID            string    `db:"id"`
	Role          string    `db:"role"`
	Name          string    `db:"name"`
	Username      string    `db:"username"`
	Email         string    `db:"email"`
	PasswordHash  []byte    `db:"password_hash"`
	CenterName    string    `db:"center_name"`
	CoursePrice   float64   `db:"course_price"`
	CourseName    string    `db:"course_name"`
	MonthlySalary float64   `db:"monthly_salary"`
	SalaryPaid    bool      `db:"salary_paid"`
	JoinDate      string    `db:"join_date"`
	IsLeft        bool      `db:"is_left"`
	Devices       []byte    `db:"devices"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *userRow) toUser() (user.User, error) {
	devices := []user.Device{}
	if len(r.Devices) > 0 {
		if err := json.Unmarshal(r.Devices, &devices); err != nil {
			return user.User{}, errors.Wrap(err, "unmarshalling devices")
		}
	}
	return user.User{
		ID:            r.ID,
		Role:          r.Role,
		Name:          r.Name,
		Username:      r.Username,
		Email:         r.Email,
		PasswordHash:  r.PasswordHash,
		CenterName:    r.CenterName,
		CourseName:    r.CourseName,
		CoursePrice:   r.CoursePrice,
		MonthlySalary: r.MonthlySalary,
		SalaryPaid:    r.SalaryPaid,
		JoinDate:      r.JoinDate,
		IsLeft:        r.IsLeft,
		Devices:       devices,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

func newUserRow(usr user.User) (userRow, error) {
	devices := usr.Devices
	if devices == nil {
		devices = []user.Device{}
	}
	devJSON, err := json.Marshal(devices)
	if err != nil {
		return userRow{}, errors.Wrap(err, "marshalling devices")
	}
	return userRow{
		ID:            usr.ID,
		Role:          usr.Role,
		Name:          usr.Name,
		Username:      usr.Username,
		Email:         usr.Email,
		PasswordHash:  usr.PasswordHash,
		CenterName:    usr.CenterName,
		CourseName:    usr.CourseName,
		CoursePrice:   usr.CoursePrice,
		MonthlySalary: usr.MonthlySalary,
		SalaryPaid:    usr.SalaryPaid,
		JoinDate:      usr.JoinDate,
		IsLeft:        usr.IsLeft,
		Devices:       devJSON,
		CreatedAt:     usr.CreatedAt,
		UpdatedAt:     usr.UpdatedAt,
	}, nil
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username string, excludedUsers ...user.User) error {
	query := `SELECT COUNT(*) FROM "user" WHERE username = $1`
	args := []interface{}{username}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		query = `SELECT COUNT(*) FROM "user" WHERE username = ? AND id NOT IN (?)`
		var err error
		query, args, err = sqlx.In(query, username, ids)
		if err != nil {
			return errors.Wrap(err, "expanding IN clause")
		}
		query = repo.db.Rebind(query)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	if count > 0 {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	row, err := newUserRow(usr)
	if err != nil {
		return user.User{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO "user" (id, role, name, username, email, password_hash, center_name, course_name,
		                    course_price, monthly_salary, salary_paid, join_date, is_left, devices,
		                    created_at, updated_at)
		VALUES (:id, :role, :name, :username, :email, :password_hash, :center_name, :course_name,
		        :course_price, :monthly_salary, :salary_paid, :join_date, :is_left, :devices,
		        :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM "user" ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for i := range rows {
		usr, err := rows[i].toUser()
		if err != nil {
			return nil, err
		}
		users = append(users, usr)
	}
	return users, nil
}

func (repo *userRepository) getOne(ctx context.Context, query string, args ...interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.toUser()
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.getOne(ctx, `SELECT * FROM "user" WHERE id = $1`, id)
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.getOne(ctx, `SELECT * FROM "user" WHERE username = $1`, username)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getOne(ctx, `SELECT * FROM "user" WHERE email = $1 AND email <> ''`, email)
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	row, err := newUserRow(usr)
	if err != nil {
		return user.User{}, err
	}
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE "user"
		SET role = :role, name = :name, username = :username, email = :email,
		    password_hash = :password_hash, center_name = :center_name, course_name = :course_name,
		    course_price = :course_price, monthly_salary = :monthly_salary, salary_paid = :salary_paid,
		    join_date = :join_date, is_left = :is_left, devices = :devices, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUserByID(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = $1`, id)
	return errors.Wrap(err, "deleting user")
}
