package handlers

import (
	"strconv"

	"github.com/eco-rangers/eco-rangers-api/internal/dto"
	"github.com/eco-rangers/eco-rangers-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	reports, err := h.reportService.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return respondError(c, services.ErrReportNotFound)
	}

	report, err := h.reportService.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// Create accepts a multipart form: judul, deskripsi, lokasi_text?, lat?, lng?
// and an optional foto file.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	req := dto.CreateReportRequest{
		Judul:     c.FormValue("judul"),
		Deskripsi: c.FormValue("deskripsi"),
	}
	if v := c.FormValue("lokasi_text"); v != "" {
		req.LokasiText = &v
	}

	var fields map[string][]string
	if lat, ok := parseCoord(c.FormValue("lat")); ok {
		req.Lat = lat
	} else {
		fields = appendFieldError(fields, "lat", "The lat field must be a number.")
	}
	if lng, ok := parseCoord(c.FormValue("lng")); ok {
		req.Lng = lng
	} else {
		fields = appendFieldError(fields, "lng", "The lng field must be a number.")
	}
	if fields != nil {
		return respondError(c, &services.ValidationError{Fields: fields})
	}

	var photo *services.PhotoUpload
	if header, err := c.FormFile("foto"); err == nil && header != nil {
		f, err := header.Open()
		if err != nil {
			return respondError(c, err)
		}
		defer f.Close()
		photo = &services.PhotoUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Size:        header.Size,
			Reader:      f,
		}
	}

	report, err := h.reportService.Create(&req, photo)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return respondError(c, services.ErrReportNotFound)
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reportService.UpdateStatus(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return respondError(c, services.ErrReportNotFound)
	}

	if err := h.reportService.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DeleteResponse{Deleted: true})
}

func reportID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseCoord treats an empty form value as absent; lat and lng are each
// optional and independently nullable.
func parseCoord(v string) (*float64, bool) {
	if v == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

func appendFieldError(fields map[string][]string, field, message string) map[string][]string {
	if fields == nil {
		fields = make(map[string][]string)
	}
	fields[field] = append(fields[field], message)
	return fields
}
