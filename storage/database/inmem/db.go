package inmemdb

import (
	"sync"

	"github.com/aslbekqoziboyev/lc-backend/core/course"
	"github.com/aslbekqoziboyev/lc-backend/core/student"
	"github.com/aslbekqoziboyev/lc-backend/core/user"
)

type (
	// DB is a process-local store used for development and tests.
	DB struct {
		user    *userTable
		course  *courseTable
		student *studentTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	courseTable struct {
		table map[string]*course.Course
		mutex sync.RWMutex
	}

	studentTable struct {
		table map[string]*student.Student
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		course:  &courseTable{table: make(map[string]*course.Course)},
		student: &studentTable{table: make(map[string]*student.Student)},
	}
	return db, nil
}
