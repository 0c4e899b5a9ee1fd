package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/repository"
	"github.com/fadilmartias/recruit-scheduler/internal/service"
	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// UploadedFile is a document already saved to disk by the HTTP layer.
type UploadedFile struct {
	Name string
	Path string
}

type ResumeUploadItem struct {
	FileName string     `json:"file_name"`
	Status   string     `json:"status"`
	ResumeID *uuid.UUID `json:"resume_id,omitempty"`
	Name     string     `json:"candidate_name,omitempty"`
	Email    string     `json:"email,omitempty"`
	Message  string     `json:"message,omitempty"`
}

type IngestionUsecase struct {
	jobRepo    repository.JobRepositoryInterface
	resumeRepo repository.ResumeRepositoryInterface
	openRouter service.OpenRouterServiceInterface
	gemini     service.GeminiServiceInterface
	extract    func(path string) (string, error)
	log        *slog.Logger
}

func NewIngestionUsecase(
	jobRepo repository.JobRepositoryInterface,
	resumeRepo repository.ResumeRepositoryInterface,
	openRouter service.OpenRouterServiceInterface,
	gemini service.GeminiServiceInterface,
) *IngestionUsecase {
	return &IngestionUsecase{
		jobRepo:    jobRepo,
		resumeRepo: resumeRepo,
		openRouter: openRouter,
		gemini:     gemini,
		extract:    util.ExtractPDFText,
		log:        slog.With(slog.String("component", "ingestion")),
	}
}

// AnalyzeJD turns a job description PDF into a job with an embedding. When
// jobID is set the existing job is updated in place.
func (uc *IngestionUsecase) AnalyzeJD(ctx context.Context, file UploadedFile, sourceURL string, jobID *uuid.UUID) (*model.Job, error) {
	const op = "analyze job description"
	text, err := uc.extract(file.Path)
	if err != nil {
		return nil, newError(KindInvalidInput, op, "could not read text from the PDF", err)
	}

	job := &model.Job{}
	if jobID != nil {
		existing, err := uc.jobRepo.FindByID(ctx, *jobID)
		if err != nil {
			return nil, lookupError(op, "job", err)
		}
		job = existing
	}

	fields, err := uc.openRouter.ExtractJob(ctx, text)
	if err != nil {
		return nil, newError(KindExternal, op, "could not extract job details", err)
	}
	emb, err := uc.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, newError(KindExternal, op, "could not embed job description", err)
	}

	job.Title = fields.Title
	job.Role = fields.Role
	job.Company = fields.Company
	job.Location = fields.Location
	job.Skills = strings.Join(fields.Skills, ", ")
	job.Content = text
	job.Embedding = pgvector.NewVector(emb)
	if sourceURL != "" {
		job.SourceURL = sourceURL
	}
	if job.Title == "" {
		job.Title = strings.TrimSuffix(file.Name, ".pdf")
	}

	if jobID != nil {
		err = uc.jobRepo.Update(ctx, job)
	} else {
		err = uc.jobRepo.Create(ctx, job)
	}
	if err != nil {
		return nil, newError(KindInternal, op, "could not save job", err)
	}
	uc.log.Info("job description analyzed",
		slog.String("job_id", job.ID.String()), slog.String("role", job.DisplayRole()))
	return job, nil
}

// UploadResumes processes each file independently and reports a status per file.
func (uc *IngestionUsecase) UploadResumes(ctx context.Context, files []UploadedFile) ([]ResumeUploadItem, error) {
	if len(files) == 0 {
		return nil, newError(KindInvalidInput, "upload resumes", "at least one file is required", nil)
	}
	items := make([]ResumeUploadItem, 0, len(files))
	for _, f := range files {
		item := ResumeUploadItem{FileName: f.Name}
		resume, err := uc.ingestResume(ctx, f)
		if err != nil {
			uc.log.Warn("resume ingestion failed", slog.String("file", f.Name), slog.Any("error", err))
			item.Status = "failed"
			item.Message = MessageOf(err)
		} else {
			item.Status = "processed"
			item.ResumeID = &resume.ID
			item.Name = resume.CandidateName
			item.Email = resume.Email
		}
		items = append(items, item)
	}
	return items, nil
}

func (uc *IngestionUsecase) ingestResume(ctx context.Context, f UploadedFile) (*model.Resume, error) {
	const op = "upload resume"
	text, err := uc.extract(f.Path)
	if err != nil {
		return nil, newError(KindInvalidInput, op, "could not read text from the PDF", err)
	}
	fields, err := uc.openRouter.ExtractResume(ctx, text)
	if err != nil {
		return nil, newError(KindExternal, op, "could not extract candidate details", err)
	}
	emb, err := uc.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, newError(KindExternal, op, "could not embed resume", err)
	}
	resume := &model.Resume{
		CandidateName:   fields.Name,
		Email:           strings.ToLower(strings.TrimSpace(fields.Email)),
		Phone:           fields.Phone,
		Skills:          strings.Join(fields.Skills, ", "),
		ExperienceYears: fields.ExperienceYears,
		FileName:        f.Name,
		Content:         text,
		Embedding:       pgvector.NewVector(emb),
	}
	if err := uc.resumeRepo.Create(ctx, resume); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(KindConflict, op, "resume already uploaded", err)
		}
		return nil, newError(KindInternal, op, "could not save resume", err)
	}
	return resume, nil
}
