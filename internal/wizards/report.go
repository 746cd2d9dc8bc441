package wizards

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/db/repositories"
	"unionhall/backoffice/internal/logging"
	"unionhall/backoffice/internal/models/dtos"
	gormModels "unionhall/backoffice/internal/models/gorm"
)

// DefaultPrimaryKeyField keys persisted report rows when the source does
// not name one
const DefaultPrimaryKeyField = "workerId"

// Record is one report result row as produced by the source query
type Record map[string]any

// ReportSource supplies the domain query behind one report wizard type
type ReportSource interface {
	// FetchRecords runs the source query. batchSize bounds per-chunk work
	// and onProgress fires between chunks.
	FetchRecords(ctx context.Context, wizard *gormModels.Wizard, batchSize int, onProgress ProgressFunc) ([]Record, []dtos.ReportColumn, error)

	// PrimaryKeyField names the record attribute used to key persisted
	// rows. Empty selects DefaultPrimaryKeyField.
	PrimaryKeyField() string
}

// ReportResults joins stored metadata with the result records
type ReportResults struct {
	Meta    dtos.ReportMeta `json:"meta"`
	Records []Record        `json:"records"`
}

// ReportGenerator runs report wizards: it snapshots the source query into
// the row store so results can be re-fetched without re-running the query.
type ReportGenerator struct {
	wizards *repositories.WizardRepo
	rows    *repositories.ReportRowRepo
	source  ReportSource
	group   singleflight.Group
}

// NewReportGenerator wires the generator
func NewReportGenerator(
	wizardRepo *repositories.WizardRepo,
	rowRepo *repositories.ReportRowRepo,
	source ReportSource,
) *ReportGenerator {
	return &ReportGenerator{
		wizards: wizardRepo,
		rows:    rowRepo,
		source:  source,
	}
}

func (g *ReportGenerator) primaryKeyField() string {
	if pk := g.source.PrimaryKeyField(); pk != "" {
		return pk
	}
	return DefaultPrimaryKeyField
}

// GenerateReport regenerates the report for one wizard. Reruns replace all
// prior rows; results never mix across runs. A record missing its primary
// key aborts the whole generation. Concurrent calls for the same wizard id
// share one run.
func (g *ReportGenerator) GenerateReport(ctx context.Context, wizardID string, batchSize int, onProgress ProgressFunc) (*ReportResults, error) {
	res, err, _ := g.group.Do(wizardID, func() (interface{}, error) {
		return g.generate(ctx, wizardID, batchSize, onProgress)
	})
	if err != nil {
		return nil, err
	}
	return res.(*ReportResults), nil
}

func (g *ReportGenerator) generate(ctx context.Context, wizardID string, batchSize int, onProgress ProgressFunc) (*ReportResults, error) {
	wizard, err := g.wizards.GetByID(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard: %w", err)
	}
	if wizard == nil {
		return nil, ErrWizardNotFound
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	// Clear stale metadata up front so a failed run never leaves the
	// previous run's summary pointing at replaced rows.
	if wizard.State.ReportMeta != nil {
		wizard.State.ReportMeta = nil
		if err := g.wizards.Save(ctx, wizard); err != nil {
			return nil, err
		}
	}

	records, columns, err := g.source.FetchRecords(ctx, wizard, batchSize, onProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report records: %w", err)
	}

	if err := g.rows.DeleteForWizard(ctx, wizardID); err != nil {
		return nil, fmt.Errorf("failed to clear prior report rows: %w", err)
	}

	pkField := g.primaryKeyField()
	for _, record := range records {
		pk := ""
		if v, ok := record[pkField]; ok && v != nil {
			pk = fmt.Sprintf("%v", v)
		}
		if pk == "" {
			return nil, fmt.Errorf("%w: field %q", ErrMissingPrimaryKey, pkField)
		}

		row := &gormModels.ReportRow{
			WizardID:        wizardID,
			PrimaryKeyValue: pk,
			Data:            record,
		}
		if err := g.rows.Save(ctx, row); err != nil {
			return nil, err
		}
	}

	meta := &dtos.ReportMeta{
		GeneratedAt: time.Now().UTC(),
		RecordCount: len(records),
		Columns:     columns,
		PrimaryKey:  pkField,
	}

	wizard.State.ReportMeta = meta
	wizard.Status = constants.WizardStatusCompleted
	if err := g.wizards.Save(ctx, wizard); err != nil {
		return nil, err
	}

	logging.Info("Report generated",
		"wizard_id", wizardID,
		"record_count", len(records),
	)

	// Return the in-memory results directly rather than re-reading the
	// row store.
	return &ReportResults{Meta: *meta, Records: records}, nil
}

// GetReportResults rehydrates a previously generated report. Returns nil
// when the report has never been run. Stored metadata is the source of
// truth for record count; divergence from the persisted rows is logged,
// not corrected.
func (g *ReportGenerator) GetReportResults(ctx context.Context, wizardID string) (*ReportResults, error) {
	wizard, err := g.wizards.GetByID(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard: %w", err)
	}
	if wizard == nil {
		return nil, ErrWizardNotFound
	}

	meta := wizard.State.ReportMeta
	if meta == nil {
		return nil, nil
	}

	rows, err := g.rows.ListForWizard(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load report rows: %w", err)
	}

	if len(rows) != meta.RecordCount {
		logging.Warn("Report row count diverges from stored metadata",
			"wizard_id", wizardID,
			"meta_count", meta.RecordCount,
			"row_count", len(rows),
		)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record(row.Data))
	}

	return &ReportResults{Meta: *meta, Records: records}, nil
}
