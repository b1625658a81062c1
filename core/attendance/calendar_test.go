package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var marchRecords = []Record{
	{StudentID: "s1", Date: "2025-03-03", Time: "10:00", Subject: "Math", Status: StatusPresent},
	{StudentID: "s1", Date: "2025-03-03", Time: "11:00", Subject: "Physics", Status: StatusAbsent},
	{StudentID: "s1", Date: "2025-03-09", Subject: "Math", Status: StatusAbsent}, // a Sunday
}

func TestBuildCalendar_march2025(t *testing.T) {
	calendar, err := BuildCalendar(marchRecords, 2025, time.March)
	if err != nil {
		t.Fatalf("BuildCalendar() failed: %v", err)
	}
	if len(calendar) != 31 {
		t.Fatalf("len(calendar) = %d, want 31", len(calendar))
	}

	for _, cell := range calendar {
		switch cell.Day {
		case 3:
			// any present record wins over the absent one
			assert.Equal(t, DayPresent, cell.Status)
			assert.Len(t, cell.Records, 2)
		case 9:
			// an explicit record wins over the Sunday default
			assert.Equal(t, DayAbsent, cell.Status)
			assert.True(t, cell.IsSunday)
		case 2, 16, 23, 30:
			assert.Equal(t, DayHoliday, cell.Status, "day %d", cell.Day)
			assert.True(t, cell.IsSunday)
		default:
			assert.Equal(t, DayNoRecord, cell.Status, "day %d", cell.Day)
			assert.Empty(t, cell.Records, "day %d", cell.Day)
		}
	}

	stats := Stats(calendar)
	assert.Equal(t, MonthlyStats{WorkingDays: 2, PresentDays: 1, Percentage: 50.0}, stats)
}

func TestBuildCalendar_subjectFilter(t *testing.T) {
	calendar, err := BuildCalendar(marchRecords, 2025, time.March, "Physics")
	if err != nil {
		t.Fatalf("BuildCalendar() failed: %v", err)
	}

	// day 3 only sees the Physics absence
	day3 := calendar[2]
	assert.Equal(t, DayAbsent, day3.Status)
	assert.Len(t, day3.Records, 1)

	// day 9's Math record is filtered out, the Sunday default applies
	day9 := calendar[8]
	assert.Equal(t, DayHoliday, day9.Status)
	assert.Empty(t, day9.Records)

	stats := Stats(calendar)
	assert.Equal(t, MonthlyStats{WorkingDays: 1, PresentDays: 0, Percentage: 0}, stats)
}

func TestBuildCalendar_deterministic(t *testing.T) {
	c1, err := BuildCalendar(marchRecords, 2025, time.March)
	if err != nil {
		t.Fatalf("BuildCalendar() failed: %v", err)
	}
	c2, err := BuildCalendar(marchRecords, 2025, time.March)
	if err != nil {
		t.Fatalf("BuildCalendar() failed: %v", err)
	}
	assert.Equal(t, c1, c2)
}

func TestBuildCalendar_dayCount(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{name: "january", year: 2025, month: time.January, want: 31},
		{name: "april", year: 2025, month: time.April, want: 30},
		{name: "february", year: 2025, month: time.February, want: 28},
		{name: "february leap", year: 2024, month: time.February, want: 29},
		{name: "december", year: 2025, month: time.December, want: 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calendar, err := BuildCalendar(nil, tt.year, tt.month)
			if err != nil {
				t.Fatalf("BuildCalendar() failed: %v", err)
			}
			if len(calendar) != tt.want {
				t.Errorf("len(calendar) = %d, want %d", len(calendar), tt.want)
			}
		})
	}
}

func TestBuildCalendar_contractViolations(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		wantErr error
	}{
		{name: "month zero", year: 2025, month: 0, wantErr: ErrInvalidMonth},
		{name: "month thirteen", year: 2025, month: 13, wantErr: ErrInvalidMonth},
		{name: "year too short", year: 99, month: time.March, wantErr: ErrInvalidYear},
		{name: "year too long", year: 10000, month: time.March, wantErr: ErrInvalidYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildCalendar(nil, tt.year, tt.month); err != tt.wantErr {
				t.Errorf("BuildCalendar() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildCalendar_noRecords(t *testing.T) {
	calendar, err := BuildCalendar(nil, 2025, time.March)
	if err != nil {
		t.Fatalf("BuildCalendar() failed: %v", err)
	}
	for _, cell := range calendar {
		if cell.IsSunday {
			assert.Equal(t, DayHoliday, cell.Status, "day %d", cell.Day)
		} else {
			assert.Equal(t, DayNoRecord, cell.Status, "day %d", cell.Day)
		}
	}
	assert.Equal(t, MonthlyStats{}, Stats(calendar))
}

func TestBuildCalendar_duplicateRecordsDoNotDoubleCountDay(t *testing.T) {
	records := []Record{
		{StudentID: "s1", Date: "2025-03-04", Time: "10:00", Subject: "Math", Status: StatusAbsent},
		{StudentID: "s1", Date: "2025-03-04", Time: "10:00", Subject: "Math", Status: StatusAbsent},
		{StudentID: "s1", Date: "2025-03-04", Time: "10:00", Subject: "Math", Status: StatusPresent},
	}
	calendar, err := BuildCalendar(records, 2025, time.March)
	if err != nil {
		t.Fatalf("BuildCalendar() failed: %v", err)
	}

	day4 := calendar[3]
	assert.Equal(t, DayPresent, day4.Status) // present dominance
	assert.Len(t, day4.Records, 3)           // duplicates retained, input order

	stats := Stats(calendar)
	assert.Equal(t, MonthlyStats{WorkingDays: 1, PresentDays: 1, Percentage: 100.0}, stats)
}

func TestStats_rounding(t *testing.T) {
	// 1 present out of 3 working days -> 33.3%, one decimal
	records := []Record{
		{Date: "2025-03-03", Subject: "Math", Status: StatusPresent},
		{Date: "2025-03-04", Subject: "Math", Status: StatusAbsent},
		{Date: "2025-03-05", Subject: "Math", Status: StatusAbsent},
	}
	calendar, err := BuildCalendar(records, 2025, time.March)
	if err != nil {
		t.Fatalf("BuildCalendar() failed: %v", err)
	}
	stats := Stats(calendar)
	assert.Equal(t, 33.3, stats.Percentage)
	assert.LessOrEqual(t, stats.PresentDays, stats.WorkingDays)
}
