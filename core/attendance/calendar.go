package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

var (
	// contract violations
	ErrInvalidYear  = errors.New("year must be a 4-digit integer")
	ErrInvalidMonth = errors.New("month must be in 1..12")
)

// BuildCalendar derives one DayCell per day of the given month (1-based,
// time.Month) from a flat, possibly unordered record collection. When a
// subject is given, records for other subjects are ignored.
//
// A day with at least one record is "present" if any of its records is
// present, "absent" otherwise. A recordless Sunday is a "holiday"; any other
// recordless day has no status. Records sharing a date keep their input order.
//
// BuildCalendar is a pure function of its inputs; an empty record collection
// is valid and yields an all-blank/holiday month.
func BuildCalendar(records []Record, year int, month time.Month, subject ...string) ([]DayCell, error) {
	if year < 1000 || year > 9999 {
		return nil, ErrInvalidYear
	}
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	var subj string
	if len(subject) > 0 {
		subj = subject[0]
	}

	byDate := make(map[string][]Record, len(records))
	for _, rec := range records {
		if subj != "" && rec.Subject != subj {
			continue
		}
		byDate[rec.Date] = append(byDate[rec.Date], rec)
	}

	numDays := daysInMonth(year, month)
	calendar := make([]DayCell, 0, numDays)
	for day := 1; day <= numDays; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		dateKey := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		isSunday := date.Weekday() == time.Sunday

		var status DayStatus
		dayRecs := byDate[dateKey]
		if len(dayRecs) > 0 {
			status = DayAbsent
			for _, rec := range dayRecs {
				if rec.Status == StatusPresent {
					status = DayPresent
					break
				}
			}
		} else if isSunday {
			status = DayHoliday
		}

		calendar = append(calendar, DayCell{
			Day:      day,
			DateKey:  dateKey,
			Status:   status,
			IsSunday: isSunday,
			Records:  dayRecs,
		})
	}
	return calendar, nil
}

// Stats computes the monthly summary over a calendar built by BuildCalendar.
// The same function serves the single-student detail view and the roster
// summary so day counting and rounding never diverge.
func Stats(calendar []DayCell) MonthlyStats {
	var stats MonthlyStats
	for _, cell := range calendar {
		switch cell.Status {
		case DayPresent:
			stats.WorkingDays++
			stats.PresentDays++
		case DayAbsent:
			stats.WorkingDays++
		}
	}
	if stats.WorkingDays > 0 {
		pct := float64(stats.PresentDays) / float64(stats.WorkingDays) * 100
		stats.Percentage = math.Round(pct*10) / 10 // 1 decimal
	}
	return stats
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
