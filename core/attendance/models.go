package attendance

import (
	"time"

	"github.com/edutrack/portal/core"
)

// Status of a single lecture record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

func (s Status) IsValid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// DayStatus is the derived status of a calendar day.
type DayStatus string

const (
	DayPresent  DayStatus = "present"
	DayAbsent   DayStatus = "absent"
	DayHoliday  DayStatus = "holiday"
	DayNoRecord DayStatus = "" // rendered blank
)

// DateLayout is the calendar-date key format used throughout ("2025-03-03").
const DateLayout = "2006-01-02"

// Record is a single per-lecture attendance fact for one student.
// Many records may share a date (multiple lectures/subjects per day).
type Record struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Date      string    `json:"date"` // DateLayout
	Time      string    `json:"time,omitempty"`
	Subject   string    `json:"subject"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// DayCell is one derived calendar day; not stored.
type DayCell struct {
	Day      int       `json:"day"`
	DateKey  string    `json:"date_key"`
	Status   DayStatus `json:"status"`
	IsSunday bool      `json:"is_sunday"`
	Records  []Record  `json:"records"`
}

// MonthlyStats summarizes one month of DayCells. A day counts toward
// WorkingDays only if it has at least one record.
type MonthlyStats struct {
	WorkingDays int     `json:"total"`
	PresentDays int     `json:"present"`
	Percentage  float64 `json:"percentage"`
}

// NewRecord contains information needed to mark attendance for a lecture.
type NewRecord struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"omitempty,datetime=15:04"`
	Subject   string `json:"subject" validate:"required"`
	Status    Status `json:"status" validate:"required,attstatus"`
}

func (nr *NewRecord) Validate() error {
	nr.Subject = core.CleanString(nr.Subject)
	return core.Validate.Struct(nr)
}
