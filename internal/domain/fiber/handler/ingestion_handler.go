package handler

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/dto"
	"github.com/fadilmartias/recruit-scheduler/internal/middleware"
	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	maxUploadSize   = 5 * 1024 * 1024
	maxResumeUpload = 50
)

type IngestionHandler struct {
	uc        *usecase.IngestionUsecase
	uploadDir string
}

func NewIngestionHandler(uc *usecase.IngestionUsecase, uploadDir string) *IngestionHandler {
	return &IngestionHandler{uc: uc, uploadDir: uploadDir}
}

func (h *IngestionHandler) RegisterRoutes(app *fiber.App, admin fiber.Handler) {
	limit := middleware.RateLimiter(5, 10*time.Second)
	app.Post("/jd/analyze/pdf", admin, limit, h.AnalyzeJD)
	app.Post("/resumes/upload", admin, limit, h.UploadResumes)
}

func (h *IngestionHandler) AnalyzeJD(c *fiber.Ctx) error {
	var form dto.AnalyzeJDForm
	if ok, err := bind(c, &form); !ok {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required", err)
	}
	file, ferr := h.save(c, fh, "jd")
	if ferr != nil {
		return uploadError(c, ferr)
	}
	defer os.Remove(file.Path)

	var jobID *uuid.UUID
	if form.JobID != "" {
		id := uuid.MustParse(form.JobID)
		jobID = &id
	}
	job, err := h.uc.AnalyzeJD(c.UserContext(), file, form.SourceURL, jobID)
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Job description analyzed",
		Data:    job,
	})
}

func (h *IngestionHandler) UploadResumes(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "multipart form is required", err)
	}
	headers := append(form.File["files"], form.File["files[]"]...)
	if len(headers) == 0 {
		return badRequest(c, "at least one file is required", nil)
	}
	if len(headers) > maxResumeUpload {
		return badRequest(c, fmt.Sprintf("at most %d files per upload", maxResumeUpload), nil)
	}

	files := make([]usecase.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		file, ferr := h.save(c, fh, "resumes")
		if ferr != nil {
			return uploadError(c, ferr)
		}
		defer os.Remove(file.Path)
		files = append(files, file)
	}

	items, err := h.uc.UploadResumes(c.UserContext(), files)
	if err != nil {
		return usecaseError(c, err)
	}
	processed := 0
	for _, it := range items {
		if it.Status == "processed" {
			processed++
		}
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("%d of %d resumes processed", processed, len(items)),
		Data:    items,
	})
}

// save stores an uploaded PDF under a generated name.
func (h *IngestionHandler) save(c *fiber.Ctx, fh *multipart.FileHeader, kind string) (usecase.UploadedFile, *fiber.Error) {
	name := filepath.Base(fh.Filename)
	if fh.Size > maxUploadSize {
		return usecase.UploadedFile{}, fiber.NewError(fiber.StatusRequestEntityTooLarge, name+" is too large (max 5MB)")
	}
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return usecase.UploadedFile{}, fiber.NewError(fiber.StatusUnsupportedMediaType, name+" is not a PDF")
	}

	dir := filepath.Join(h.uploadDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("create upload dir", slog.String("dir", dir), slog.Any("error", err))
		return usecase.UploadedFile{}, fiber.NewError(fiber.StatusInternalServerError, "cannot store upload")
	}
	path := filepath.Join(dir, uuid.NewString()+".pdf")
	if err := c.SaveFile(fh, path); err != nil {
		slog.Error("save upload", slog.String("file", name), slog.Any("error", err))
		return usecase.UploadedFile{}, fiber.NewError(fiber.StatusInternalServerError, "cannot save "+name)
	}
	return usecase.UploadedFile{Name: name, Path: path}, nil
}

func uploadError(c *fiber.Ctx, err *fiber.Error) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{Code: err.Code, Message: err.Message}, nil)
}
