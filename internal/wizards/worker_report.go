package wizards

import (
	"context"

	"unionhall/backoffice/internal/common"
	"unionhall/backoffice/internal/db/repositories"
	"unionhall/backoffice/internal/models/dtos"
	gormModels "unionhall/backoffice/internal/models/gorm"
)

// WorkerRosterSource backs the worker report wizard: a snapshot of the
// member roster for the wizard's entity.
type WorkerRosterSource struct {
	workers *repositories.WorkerRepo
}

var _ ReportSource = (*WorkerRosterSource)(nil)

func NewWorkerRosterSource(workers *repositories.WorkerRepo) *WorkerRosterSource {
	return &WorkerRosterSource{workers: workers}
}

func (s *WorkerRosterSource) PrimaryKeyField() string {
	return DefaultPrimaryKeyField
}

func (s *WorkerRosterSource) FetchRecords(ctx context.Context, wizard *gormModels.Wizard, batchSize int, onProgress ProgressFunc) ([]Record, []dtos.ReportColumn, error) {
	workers, err := s.workers.ListByEntity(ctx, wizard.EntityID)
	if err != nil {
		return nil, nil, err
	}

	records := make([]Record, 0, len(workers))
	for i, w := range workers {
		record := Record{
			"workerId":  w.ID,
			"ssn":       common.FormatSSN(w.SSN),
			"firstName": w.FirstName,
			"lastName":  w.LastName,
		}
		if w.MiddleName != nil {
			record["middleName"] = *w.MiddleName
		}
		if w.BirthDate != nil {
			record["birthDate"] = *w.BirthDate
		}
		records = append(records, record)

		if onProgress != nil && batchSize > 0 && (i+1)%batchSize == 0 {
			onProgress(i+1, len(workers))
		}
	}

	columns := []dtos.ReportColumn{
		{ID: "workerId", Name: "Worker ID"},
		{ID: "ssn", Name: "SSN"},
		{ID: "firstName", Name: "First Name"},
		{ID: "middleName", Name: "Middle Name"},
		{ID: "lastName", Name: "Last Name"},
		{ID: "birthDate", Name: "Birth Date"},
	}

	return records, columns, nil
}
