package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/sebit-insight/internal/bulkimport"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
	"github.com/spec-kit/sebit-insight/internal/repository"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

// BulkImportService previews and submits spreadsheet project imports.
type BulkImportService struct {
	projects   *ProjectService
	masterData ImportMasterData
	clients    repository.ClientRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	maxRows    int
}

// BulkImportDependencies bundles collaborators for bulk import.
type BulkImportDependencies struct {
	ProjectService *ProjectService
	MasterData     ImportMasterData
	ClientRepo     repository.ClientRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	MaxRows        int
}

// ImportMasterData resolves import rows and creates clients on demand.
// *MasterDataService implements it.
type ImportMasterData interface {
	ImportReference(ctx context.Context) (bulkimport.Reference, error)
	CreateClient(ctx context.Context, actor *domain.User, input ClientInput) (*domain.Client, error)
	ReactivateClient(ctx context.Context, actor *domain.User, id string) (*domain.Client, error)
}

// PreviewInput is a parsed sheet plus an optional user-edited mapping.
type PreviewInput struct {
	Headers           []string
	Rows              []map[string]string
	Mapping           []bulkimport.ColumnMapping
	AutoCreateClients bool
}

// Preview is the validated view of an upload.
type Preview struct {
	Headers []string                   `json:"headers"`
	Mapping []bulkimport.ColumnMapping `json:"mapping"`
	Rows    []bulkimport.RowResult     `json:"rows"`
	Summary bulkimport.Summary         `json:"summary"`
}

// SubmitRow is one previewed row sent back for creation.
type SubmitRow struct {
	RowNumber int
	Selected  bool
	Fields    bulkimport.RowFields
}

// SubmitInput is the batch-create request.
type SubmitInput struct {
	Rows              []SubmitRow
	AutoCreateClients bool
}

// RowOutcome reports what happened to one submitted row.
type RowOutcome struct {
	RowNumber     int    `json:"row_number"`
	Success       bool   `json:"success"`
	ProjectID     string `json:"project_id,omitempty"`
	ProjectCode   string `json:"project_code,omitempty"`
	ClientCreated bool   `json:"client_created,omitempty"`
	Error         string `json:"error,omitempty"`
}

// SubmitResult aggregates row outcomes.
type SubmitResult struct {
	Results        []RowOutcome `json:"results"`
	Created        int          `json:"created"`
	Failed         int          `json:"failed"`
	Skipped        int          `json:"skipped"`
	ClientsCreated int          `json:"clients_created"`
}

// NewBulkImportService constructs the service.
func NewBulkImportService(deps BulkImportDependencies) *BulkImportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxRows := deps.MaxRows
	if maxRows <= 0 {
		maxRows = 1000
	}
	return &BulkImportService{
		projects:   deps.ProjectService,
		masterData: deps.MasterData,
		clients:    deps.ClientRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		maxRows:    maxRows,
	}
}

// PreviewFile parses an uploaded CSV/XLSX file and validates its rows.
func (s *BulkImportService) PreviewFile(ctx context.Context, file io.Reader, filename string, autoCreateClients bool) (*Preview, error) {
	sheet, err := bulkimport.ParseFile(file, filename)
	if err != nil {
		if errors.Is(err, bulkimport.ErrUnsupportedFormat) || errors.Is(err, bulkimport.ErrEmptySheet) {
			return nil, fieldErrors{"file": err.Error()}.err()
		}
		return nil, fieldErrors{"file": fmt.Sprintf("could not read file: %v", err)}.err()
	}
	return s.Preview(ctx, PreviewInput{
		Headers:           sheet.Headers,
		Rows:              sheet.Rows,
		AutoCreateClients: autoCreateClients,
	})
}

// Preview maps headers and validates rows against current master data.
func (s *BulkImportService) Preview(ctx context.Context, input PreviewInput) (*Preview, error) {
	if len(input.Headers) == 0 {
		return nil, fieldErrors{"headers": "at least one header is required"}.err()
	}
	if len(input.Rows) > s.maxRows {
		return nil, fieldErrors{"rows": fmt.Sprintf("at most %d rows can be imported at once", s.maxRows)}.err()
	}
	mapping := input.Mapping
	if len(mapping) == 0 {
		mapping = bulkimport.AutoMap(input.Headers)
	}
	if err := bulkimport.CheckMapping(mapping); err != nil {
		return nil, fieldErrors{"mapping": err.Error()}.err()
	}
	ref, err := s.masterData.ImportReference(ctx)
	if err != nil {
		return nil, err
	}
	rows := bulkimport.Validate(input.Rows, mapping, ref, bulkimport.Options{AutoCreateClients: input.AutoCreateClients})
	return &Preview{
		Headers: input.Headers,
		Mapping: mapping,
		Rows:    rows,
		Summary: bulkimport.Summarize(rows),
	}, nil
}

// Submit creates a project for every selected row. Rows fail independently.
func (s *BulkImportService) Submit(ctx context.Context, actor *domain.User, input SubmitInput) (*SubmitResult, error) {
	if len(input.Rows) == 0 {
		return nil, fieldErrors{"rows": "at least one row is required"}.err()
	}
	if len(input.Rows) > s.maxRows {
		return nil, fieldErrors{"rows": fmt.Sprintf("at most %d rows can be imported at once", s.maxRows)}.err()
	}
	rows := append([]SubmitRow(nil), input.Rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].RowNumber < rows[j].RowNumber })

	result := &SubmitResult{Results: []RowOutcome{}}
	batchClients := make(map[string]string)
	for _, row := range rows {
		if !row.Selected {
			result.Skipped++
			continue
		}
		outcome := s.submitRow(ctx, actor, row, input.AutoCreateClients, batchClients)
		if outcome.ClientCreated {
			result.ClientsCreated++
		}
		if outcome.Success {
			result.Created++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, outcome)
	}

	s.logger.Info("bulk import submitted",
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Int("clients_created", result.ClientsCreated),
	)
	publish(ctx, s.dispatcher, events.New(events.EventBulkImportCompleted, "", actorID(actor), events.BulkImportCompletedPayload{
		Submitted:      len(rows),
		Created:        result.Created,
		Failed:         result.Failed,
		Skipped:        result.Skipped,
		ClientsCreated: result.ClientsCreated,
	}))
	return result, nil
}

func (s *BulkImportService) submitRow(ctx context.Context, actor *domain.User, row SubmitRow, autoCreate bool, batchClients map[string]string) RowOutcome {
	outcome := RowOutcome{RowNumber: row.RowNumber}
	f := row.Fields
	if f.ContractAmount == nil {
		outcome.Error = "계약금액은 필수입니다"
		return outcome
	}

	clientID, created, err := s.resolveClient(ctx, actor, f, autoCreate, batchClients)
	outcome.ClientCreated = created
	if err != nil {
		outcome.Error = rowError(err)
		return outcome
	}

	project, err := s.projects.Create(ctx, actor, ProjectInput{
		Name:           f.Name,
		Type:           f.Type,
		Status:         f.Status,
		ClientID:       clientID,
		DepartmentIDs:  f.DepartmentIDs,
		SalesRepID:     f.SalesRepID,
		PMEmployeeID:   f.PMEmployeeID,
		PMExternalName: f.PMExternalName,
		ContractAmount: *f.ContractAmount,
		StartDate:      f.StartDate,
		EndDate:        f.EndDate,
		Description:    f.Description,
	}, SourceBulkImport)
	if err != nil {
		outcome.Error = rowError(err)
		return outcome
	}
	outcome.Success = true
	outcome.ProjectID = project.ID
	outcome.ProjectCode = project.Code
	return outcome
}

// resolveClient returns the row's client id, creating the client once per
// distinct name within the batch when auto-create is on.
func (s *BulkImportService) resolveClient(ctx context.Context, actor *domain.User, f bulkimport.RowFields, autoCreate bool, batchClients map[string]string) (string, bool, error) {
	if f.ClientID != nil && strings.TrimSpace(*f.ClientID) != "" {
		return *f.ClientID, false, nil
	}
	name := strings.TrimSpace(f.ClientName)
	if name == "" {
		return "", false, errors.New("고객사는 필수입니다")
	}
	key := clientKey(name)
	if id, ok := batchClients[key]; ok {
		return id, false, nil
	}
	existing, err := s.clients.GetByName(ctx, name)
	switch {
	case err == nil && existing.IsActive:
		batchClients[key] = existing.ID
		return existing.ID, false, nil
	case err == nil:
		// Preview only resolves active clients, so the row was shown as a new client.
		if !autoCreate {
			return "", false, fmt.Errorf("비활성화된 고객사입니다: '%s'", name)
		}
		client, err := s.masterData.ReactivateClient(ctx, actor, existing.ID)
		if err != nil {
			return "", false, err
		}
		s.logger.Info("inactive client reactivated by bulk import",
			zap.String("client_id", client.ID),
			zap.String("client_name", client.Name))
		batchClients[key] = client.ID
		return client.ID, true, nil
	case !apperrors.IsNotFound(err):
		return "", false, apperrors.MapError(err)
	}
	if !autoCreate {
		return "", false, fmt.Errorf("등록되지 않은 고객사입니다: '%s'", name)
	}
	client, err := s.masterData.CreateClient(ctx, actor, ClientInput{Name: name})
	if err != nil {
		return "", false, err
	}
	batchClients[key] = client.ID
	return client.ID, true, nil
}

func clientKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

func rowError(err error) string {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		return err.Error()
	}
	fields, _ := domainErr.Details["fields"].(map[string]string)
	if len(fields) == 0 {
		return domainErr.Message
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
