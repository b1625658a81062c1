package result

import (
	"time"

	"github.com/edutrack/portal/core"
)

// Grade bands, as rendered by the dashboards.
const (
	GradeExcellent = "excellent" // >= 90
	GradeGood      = "good"      // >= 75
	GradeAverage   = "average"   // >= 60
	GradePoor      = "poor"
)

// Grade maps marks (0..100) to a grade band.
func Grade(marks int) string {
	switch {
	case marks >= 90:
		return GradeExcellent
	case marks >= 75:
		return GradeGood
	case marks >= 60:
		return GradeAverage
	default:
		return GradePoor
	}
}

type Result struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Subject    string    `json:"subject"`
	Marks      int       `json:"marks"`
	Grade      string    `json:"grade"`
	RecordedAt time.Time `json:"recorded_at"` // UTC
}

// NewResult contains information needed to record an exam result.
type NewResult struct {
	StudentID string `json:"student_id" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Marks     int    `json:"marks" validate:"min=0,max=100"`
}

func (nr *NewResult) Validate() error {
	nr.Subject = core.CleanString(nr.Subject)
	return core.Validate.Struct(nr)
}
