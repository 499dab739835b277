package dto

import "github.com/eco-rangers/eco-rangers-api/internal/models"

// CreateReportRequest is the multipart field set of POST /api/reports. The
// photo itself is handled separately by the handler.
type CreateReportRequest struct {
	Judul      string   `json:"judul" validate:"required,max=255"`
	Deskripsi  string   `json:"deskripsi" validate:"required"`
	LokasiText *string  `json:"lokasi_text"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Diproses Selesai"`
}

// ReportResponse is the read-time projection of a report: the persisted row
// plus the resolved photo URL. The stored entity is never mutated with
// derived fields.
type ReportResponse struct {
	models.Report
	FotoURL *string `json:"foto_url"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
