package dto

import (
	"github.com/spec-kit/sebit-insight/internal/bulkimport"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// BulkPreviewRequest re-validates an already parsed sheet, typically after the
// user edited the column mapping.
type BulkPreviewRequest struct {
	Headers           []string                   `json:"headers" validate:"min=1"`
	Rows              []map[string]string        `json:"rows"`
	Mapping           []bulkimport.ColumnMapping `json:"mapping"`
	AutoCreateClients bool                       `json:"auto_create_clients"`
}

// ToInput converts the payload for the service layer.
func (r BulkPreviewRequest) ToInput() service.PreviewInput {
	return service.PreviewInput{
		Headers:           r.Headers,
		Rows:              r.Rows,
		Mapping:           r.Mapping,
		AutoCreateClients: r.AutoCreateClients,
	}
}

// BulkSubmitRow is one previewed row sent for creation.
type BulkSubmitRow struct {
	RowNumber int                  `json:"row_number" validate:"gt=0"`
	Selected  bool                 `json:"selected"`
	Fields    bulkimport.RowFields `json:"fields"`
}

// BulkSubmitRequest is the batch-create payload.
type BulkSubmitRequest struct {
	Rows              []BulkSubmitRow `json:"rows" validate:"min=1,dive"`
	AutoCreateClients bool            `json:"auto_create_clients"`
}

// ToInput converts the payload for the service layer.
func (r BulkSubmitRequest) ToInput() service.SubmitInput {
	rows := make([]service.SubmitRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, service.SubmitRow{RowNumber: row.RowNumber, Selected: row.Selected, Fields: row.Fields})
	}
	return service.SubmitInput{Rows: rows, AutoCreateClients: r.AutoCreateClients}
}
