package dummydb

import (
	"sync"

	"github.com/edutrack/portal/core/attendance"
	"github.com/edutrack/portal/core/faculty"
	"github.com/edutrack/portal/core/result"
	"github.com/edutrack/portal/core/student"
	"github.com/edutrack/portal/core/user"
)

// DB is an in-memory stand-in for the real database, used in tests.
type (
	DB struct {
		user       *userTable
		student    *studentTable
		faculty    *facultyTable
		attendance *attendanceTable
		result     *resultTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	facultyTable struct {
		sync.RWMutex
		table map[string]*faculty.Faculty
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
		order []string // insertion order
	}

	resultTable struct {
		sync.RWMutex
		table map[string]*result.Result
		order []string
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		student:    &studentTable{table: make(map[string]*student.Student)},
		faculty:    &facultyTable{table: make(map[string]*faculty.Faculty)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
		result:     &resultTable{table: make(map[string]*result.Result)},
	}
	return db, nil
}
