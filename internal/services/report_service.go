package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/eco-rangers/eco-rangers-api/internal/dto"
	"github.com/eco-rangers/eco-rangers-api/internal/models"
	"github.com/eco-rangers/eco-rangers-api/internal/storage"
	"github.com/eco-rangers/eco-rangers-api/internal/store"
	"github.com/eco-rangers/eco-rangers-api/internal/validation"
)

const (
	// photoArea namespaces report photos inside the blob store.
	photoArea = "reports"

	maxPhotoSize = 4 * 1024 * 1024
)

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

type ReportStore interface {
	List() ([]models.Report, error)
	Get(id uint) (*models.Report, error)
	Create(*models.Report) error
	UpdateStatus(id uint, status models.ReportStatus) (*models.Report, error)
	Delete(id uint) error
}

// PhotoUpload is an uploaded photo as seen by the service, decoupled from the
// transport's multipart types.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type ReportService struct {
	reports ReportStore
	blobs   storage.BlobStore
}

func NewReportService(reports ReportStore, blobs storage.BlobStore) *ReportService {
	return &ReportService{reports: reports, blobs: blobs}
}

func (s *ReportService) List() ([]dto.ReportResponse, error) {
	reports, err := s.reports.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, s.project(r))
	}
	return out, nil
}

func (s *ReportService) Get(id uint) (*dto.ReportResponse, error) {
	report, err := s.reports.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	resp := s.project(*report)
	return &resp, nil
}

// Create validates the submission, stores the photo first and the row second.
// If the insert fails the stored blob is removed again, so neither side keeps
// an orphan. Status is forced to Pending no matter what the caller sent.
func (s *ReportService) Create(req *dto.CreateReportRequest, photo *PhotoUpload) (*dto.ReportResponse, error) {
	if err := validation.Validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validation.FieldErrors(err)}
	}
	if photo != nil {
		if err := validatePhoto(photo); err != nil {
			return nil, err
		}
	}

	var fotoPath *string
	if photo != nil {
		ref, err := s.blobs.Store(photoArea, photo.Filename, photo.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to store photo: %w", err)
		}
		fotoPath = &ref
	}

	report := models.Report{
		Judul:      req.Judul,
		Deskripsi:  req.Deskripsi,
		LokasiText: req.LokasiText,
		Lat:        req.Lat,
		Lng:        req.Lng,
		FotoPath:   fotoPath,
		Status:     models.StatusPending,
	}

	if err := s.reports.Create(&report); err != nil {
		if fotoPath != nil {
			if derr := s.blobs.Delete(*fotoPath); derr != nil {
				slog.Error("failed to remove photo after insert failure", "ref", *fotoPath, "error", derr)
			}
		}
		return nil, err
	}

	resp := s.project(report)
	return &resp, nil
}

// UpdateStatus is the only mutation path for a report's status.
func (s *ReportService) UpdateStatus(id uint, req *dto.UpdateStatusRequest) (*dto.ReportResponse, error) {
	if err := validation.Validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validation.FieldErrors(err)}
	}

	report, err := s.reports.UpdateStatus(id, models.ReportStatus(req.Status))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	resp := s.project(*report)
	return &resp, nil
}

// Delete removes the photo blob first, then the row. A failed blob delete is
// logged and does not block the row delete: the row is the operation of
// record, and there is no cross-store transaction here.
func (s *ReportService) Delete(id uint) error {
	report, err := s.reports.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}

	if report.FotoPath != nil {
		if err := s.blobs.Delete(*report.FotoPath); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("failed to delete report photo", "id", id, "ref", *report.FotoPath, "error", err)
		}
	}

	if err := s.reports.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	return nil
}

func (s *ReportService) project(r models.Report) dto.ReportResponse {
	resp := dto.ReportResponse{Report: r}
	if r.FotoPath != nil {
		url := s.blobs.URL(*r.FotoPath)
		resp.FotoURL = &url
	}
	return resp
}

func validatePhoto(photo *PhotoUpload) error {
	if photo.Size > maxPhotoSize {
		return fieldError("foto", "The foto field must not be greater than 4096 kilobytes.")
	}
	ext := strings.ToLower(filepath.Ext(photo.Filename))
	if !allowedPhotoExts[ext] || !allowedPhotoTypes[strings.ToLower(photo.ContentType)] {
		return fieldError("foto", "The foto field must be a file of type: jpg, jpeg, png.")
	}
	return nil
}
