package attendance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edutrack/portal/core"
)

type fakeRepo struct {
	records []Record
}

func (r *fakeRepo) CreateRecord(_ context.Context, rec Record) (Record, error) {
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *fakeRepo) QueryRecordsByStudentID(_ context.Context, studentID string) ([]Record, error) {
	recs := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		if rec.StudentID == studentID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (r *fakeRepo) DeleteRecordsByStudentID(_ context.Context, studentIDs ...string) error {
	kept := r.records[:0]
	for _, rec := range r.records {
		var del bool
		for _, id := range studentIDs {
			if rec.StudentID == id {
				del = true
				break
			}
		}
		if !del {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}

func Test_service_Mark(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		rec     NewRecord
		wantErr bool
	}{
		{
			name: "ok",
			rec:  NewRecord{StudentID: "s1", Date: "2025-03-03", Time: "10:00", Subject: "Math", Status: StatusPresent},
		},
		{
			name:    "sunday rejected",
			rec:     NewRecord{StudentID: "s1", Date: "2025-03-09", Time: "10:00", Subject: "Math", Status: StatusPresent},
			wantErr: true,
		},
		{
			name:    "bad status",
			rec:     NewRecord{StudentID: "s1", Date: "2025-03-03", Subject: "Math", Status: "late"},
			wantErr: true,
		},
		{
			name:    "bad date",
			rec:     NewRecord{StudentID: "s1", Date: "03/03/2025", Subject: "Math", Status: StatusPresent},
			wantErr: true,
		},
		{
			name:    "missing subject",
			rec:     NewRecord{StudentID: "s1", Date: "2025-03-03", Status: StatusPresent},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeRepo{})
			rec, err := svc.Mark(ctx, tt.rec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Mark() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Mark() failed: %v", err)
			}
			assert.NotZero(t, rec.CreatedAt)
			assert.Equal(t, tt.rec.Date, rec.Date)
		})
	}
}

func Test_service_Mark_sundayValidationError(t *testing.T) {
	svc := NewService(&fakeRepo{})
	_, err := svc.Mark(context.Background(), NewRecord{
		StudentID: "s1", Date: "2025-03-09", Subject: "Math", Status: StatusAbsent,
	})

	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Mark() error = %T, want *core.ValidationError", err)
	}
	assert.Equal(t, ErrSundayHoliday, vErr.Err)
}

func Test_service_MonthView(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo)

	for _, rec := range marchRecords {
		repo.records = append(repo.records, rec)
	}
	// another student's records must not leak in
	repo.records = append(repo.records, Record{StudentID: "s2", Date: "2025-03-05", Subject: "Math", Status: StatusPresent})

	calendar, stats, err := svc.MonthView(ctx, "s1", 2025, 3)
	if err != nil {
		t.Fatalf("MonthView() failed: %v", err)
	}
	assert.Len(t, calendar, 31)
	assert.Equal(t, MonthlyStats{WorkingDays: 2, PresentDays: 1, Percentage: 50.0}, stats)
	assert.Equal(t, DayNoRecord, calendar[4].Status) // s2's March 5 record ignored

	_, _, err = svc.MonthView(ctx, "s1", 2025, 0)
	assert.Equal(t, ErrInvalidMonth, err)
}
