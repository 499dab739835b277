package models

import "time"

// ReportStatus is the lifecycle state of a report. The workflow is
// Pending -> Diproses -> Selesai, but staff may set any value from any
// other; no adjacency rule is enforced.
type ReportStatus string

const (
	StatusPending  ReportStatus = "Pending"
	StatusDiproses ReportStatus = "Diproses"
	StatusSelesai  ReportStatus = "Selesai"
)

// Valid reports whether s is one of the three defined statuses.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusDiproses, StatusSelesai:
		return true
	}
	return false
}

// Report is a citizen-submitted environmental incident. Field names follow
// the mobile client's wire format (Indonesian). Reports are anonymous: there
// is no owning user.
type Report struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Judul      string       `gorm:"size:255;not null" json:"judul"`
	Deskripsi  string       `gorm:"type:text;not null" json:"deskripsi"`
	LokasiText *string      `gorm:"size:255" json:"lokasi_text"`
	Lat        *float64     `gorm:"type:decimal(10,7)" json:"lat"`
	Lng        *float64     `gorm:"type:decimal(10,7)" json:"lng"`
	FotoPath   *string      `gorm:"size:255" json:"foto_path"`
	Status     ReportStatus `gorm:"size:20;not null;default:'Pending'" json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
