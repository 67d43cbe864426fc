package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/aslbekqoziboyev/lc-backend/core/student"
)

type studentRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	TeacherID  string    `db:"teacher_id"`
	CourseName string    `db:"course_name"`
	Paid       bool      `db:"paid"`
	Attendance []byte    `db:"attendance"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *studentRow) toStudent() (student.Student, error) {
	attendance := map[string]string{}
	if len(r.Attendance) > 0 {
		if err := json.Unmarshal(r.Attendance, &attendance); err != nil {
			return student.Student{}, errors.Wrap(err, "unmarshalling attendance")
		}
	}
	return student.Student{
		ID:         r.ID,
		Name:       r.Name,
		TeacherID:  r.TeacherID,
		CourseName: r.CourseName,
		Paid:       r.Paid,
		Attendance: attendance,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

func newStudentRow(std student.Student) (studentRow, error) {
	attendance := std.Attendance
	if attendance == nil {
		attendance = map[string]string{}
	}
	attJSON, err := json.Marshal(attendance)
	if err != nil {
		return studentRow{}, errors.Wrap(err, "marshalling attendance")
	}
	return studentRow{
		ID:         std.ID,
		Name:       std.Name,
		TeacherID:  std.TeacherID,
		CourseName: std.CourseName,
		Paid:       std.Paid,
		Attendance: attJSON,
		CreatedAt:  std.CreatedAt,
		UpdatedAt:  std.UpdatedAt,
	}, nil
}

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	row, err := newStudentRow(std)
	if err != nil {
		return student.Student{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO student (id, name, teacher_id, course_name, paid, attendance, created_at, updated_at)
		VALUES (:id, :name, :teacher_id, :course_name, :paid, :attendance, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for i := range rows {
		std, err := rows[i].toStudent()
		if err != nil {
			return nil, err
		}
		students = append(students, std)
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.toStudent()
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	row, err := newStudentRow(std)
	if err != nil {
		return student.Student{}, err
	}
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE student
		SET name = :name, teacher_id = :teacher_id, course_name = :course_name, paid = :paid,
		    attendance = :attendance, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) DeleteStudentByID(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id)
	return errors.Wrap(err, "deleting student")
}
