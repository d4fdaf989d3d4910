package roster

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aanand-mishra/eduadmin/internal/csvimport"
	"github.com/aanand-mishra/eduadmin/internal/storage"
	"github.com/aanand-mishra/eduadmin/internal/types"
)

// Report describes one import attempt.
type Report struct {
	BatchID  string           `json:"batchId"`
	DryRun   bool             `json:"dryRun"`
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Result   csvimport.Result `json:"result"`
}

// Preview parses text and checks it against the stored students without
// writing anything.
func (s *Service) Preview(text string) csvimport.Result {
	return csvimport.ParseAt(text, s.now()).WithDuplicates(s.RegisteredEmails())
}

// Import parses text, flags duplicates against the stored students and, unless
// dryRun is set, appends every valid record as a new student. Invalid records
// and malformed lines are skipped and listed in the report.
//
// An error is returned when the stored students cannot be read or the write
// fails; the report is still filled. After a failed read nothing is written
// and registered emails are not checked.
func (s *Service) Import(text string, dryRun bool) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := uuid.NewString()
	log := s.log.With(slog.String("batch_id", batch))

	students, loadErr := s.load()
	now := s.now()
	res := csvimport.ParseAt(text, now).WithDuplicates(emailsOf(students))

	report := Report{
		BatchID: batch,
		DryRun:  dryRun,
		Skipped: res.InvalidCount + countCode(res.FileErrors, csvimport.CodeColumnMismatch),
		Result:  res,
	}
	if loadErr != nil {
		return report, fmt.Errorf("import batch %s: %w", batch, loadErr)
	}

	valid := res.Valid()
	if dryRun || len(valid) == 0 {
		log.Info("import checked",
			slog.Bool("dry_run", dryRun),
			slog.Int("valid", res.ValidCount),
			slog.Int("invalid", res.InvalidCount),
			slog.Int("file_errors", len(res.FileErrors)))
		return report, nil
	}

	taken := idsOf(students)
	createdAt := storage.FormatDateTime(now)
	for _, rec := range valid {
		students = append(students, types.Student{
			ID:         uniqueID(taken),
			Name:       rec.Name,
			Email:      rec.Email,
			Phone:      rec.Phone,
			Program:    rec.Program,
			Team:       rec.Team,
			Coach:      rec.Coach,
			EnrollDate: rec.EnrollDate,
			CreatedAt:  createdAt,
		})
	}

	if !storage.Write(s.store, storage.KeyStudents, students) {
		log.Error("import not saved", slog.Int("valid", len(valid)))
		return report, fmt.Errorf("import batch %s: %w", batch, ErrPersist)
	}

	report.Imported = len(valid)
	log.Info("import committed",
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped))

	return report, nil
}

func countCode(issues []csvimport.Issue, code csvimport.Code) int {
	n := 0
	for _, is := range issues {
		if is.Code == code {
			n++
		}
	}
	return n
}
