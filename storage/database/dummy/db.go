// Package dummydb provides in-memory repository implementations for tests
// and local development without a database.
package dummydb

import (
	"sync"

	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/faculty"
	"github.com/trezcool/chuo/core/leave"
	"github.com/trezcool/chuo/core/marks"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/resource"
	"github.com/trezcool/chuo/core/student"
	"github.com/trezcool/chuo/core/user"
)

type (
	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	studentTable struct {
		sync.RWMutex
		table map[string]*student.Profile
	}
	facultyTable struct {
		sync.RWMutex
		table map[string]*faculty.Profile
		// assignments: facultyID → set of studentIDs
		assignments map[string]map[string]bool
	}
	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
	}
	marksTable struct {
		sync.RWMutex
		table map[string]*marks.Record
	}
	noticeTable struct {
		sync.RWMutex
		table map[string]*notice.Notice
	}
	resourceTable struct {
		sync.RWMutex
		table map[string]*resource.Resource
	}
	leaveTable struct {
		sync.RWMutex
		table map[string]*leave.Application
	}

	DB struct {
		user       *userTable
		student    *studentTable
		faculty    *facultyTable
		attendance *attendanceTable
		marks      *marksTable
		notice     *noticeTable
		resource   *resourceTable
		leave      *leaveTable
	}
)

func NewDB() *DB {
	return &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		student:    &studentTable{table: make(map[string]*student.Profile)},
		faculty:    &facultyTable{table: make(map[string]*faculty.Profile), assignments: make(map[string]map[string]bool)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
		marks:      &marksTable{table: make(map[string]*marks.Record)},
		notice:     &noticeTable{table: make(map[string]*notice.Notice)},
		resource:   &resourceTable{table: make(map[string]*resource.Resource)},
		leave:      &leaveTable{table: make(map[string]*leave.Application)},
	}
}

// Reset empties all tables; used between tests.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.student.Lock()
	db.student.table = make(map[string]*student.Profile)
	db.student.Unlock()

	db.faculty.Lock()
	db.faculty.table = make(map[string]*faculty.Profile)
	db.faculty.assignments = make(map[string]map[string]bool)
	db.faculty.Unlock()

	db.attendance.Lock()
	db.attendance.table = make(map[string]*attendance.Record)
	db.attendance.Unlock()

	db.marks.Lock()
	db.marks.table = make(map[string]*marks.Record)
	db.marks.Unlock()

	db.notice.Lock()
	db.notice.table = make(map[string]*notice.Notice)
	db.notice.Unlock()

	db.resource.Lock()
	db.resource.table = make(map[string]*resource.Resource)
	db.resource.Unlock()

	db.leave.Lock()
	db.leave.table = make(map[string]*leave.Application)
	db.leave.Unlock()
}
