package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/mail"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/security"
	"github.com/infutrix/backoffice-api/internal/storage"
)

const resumePrefix = "resume/"

type ApplyInput struct {
	FullName                  string
	JobOpeningID              string
	Email                     string
	Phone                     string
	CoverLetter               string
	LinkedIn                  string
	WhereDidYouHear           string
	HasSubscribedToNewsletter bool
	Resume                    Upload
}

// CareersService accepts job applications and removes them together with
// their stored resumes.
type CareersService struct {
	openings     repository.JobOpeningRepository
	applications repository.ApplicationRepository
	blobs        storage.BlobStore
	mailer       Mailer
	newID        func() string
}

func NewCareersService(openings repository.JobOpeningRepository, applications repository.ApplicationRepository, blobs storage.BlobStore, mailer Mailer) *CareersService {
	return &CareersService{
		openings:     openings,
		applications: applications,
		blobs:        blobs,
		mailer:       mailer,
		newID:        uuid.NewString,
	}
}

// Apply stores the resume, records the application and queues the
// confirmation mail. The resume is deleted again if the application cannot
// be recorded.
func (s *CareersService) Apply(ctx context.Context, in ApplyInput) (*domain.Application, error) {
	if err := validateResume(in.Resume); err != nil {
		return nil, err
	}
	opening, err := s.openings.FindByID(ctx, in.JobOpeningID, true)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Job opening not found")
		}
		return nil, err
	}

	key := ResumeKey(in.FullName, s.newID())
	obj, err := s.blobs.Put(ctx, key, in.Resume.Data, "application/pdf")
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("upload resume: %w", err))
	}

	app := &domain.Application{
		FullName:                  in.FullName,
		JobOpeningID:              opening.ID,
		Email:                     in.Email,
		Phone:                     in.Phone,
		CoverLetter:               in.CoverLetter,
		LinkedIn:                  in.LinkedIn,
		Resume:                    obj.URL,
		ResumeKey:                 obj.Key,
		WhereDidYouHear:           in.WhereDidYouHear,
		HasSubscribedToNewsletter: in.HasSubscribedToNewsletter,
		Status:                    domain.ApplicationInReview,
		Audit:                     domain.Audit{CreatedBy: in.FullName},
	}
	if err := s.applications.Create(ctx, app); err != nil {
		discardBlob(ctx, s.blobs, obj.Key)
		return nil, err
	}

	enqueueMail(ctx, s.mailer, mail.JobApplicationReceived, in.Email, mail.JobApplicationData{
		FullName: in.FullName,
		JobTitle: opening.Title,
	})
	return app, nil
}

// DeleteApplication removes the row, then the resume on a best-effort basis.
func (s *CareersService) DeleteApplication(ctx context.Context, id string) error {
	app, err := s.applications.Delete(ctx, id)
	if err != nil {
		return err
	}
	discardBlob(ctx, s.blobs, app.ResumeKey)
	return nil
}

// ResumeKey names a resume object after the applicant, e.g.
// resume/jane-doe-<uuid>.pdf.
func ResumeKey(fullName, id string) string {
	name := security.Slugify(fullName)
	if name == "" {
		name = "applicant"
	}
	return resumePrefix + name + "-" + id + ".pdf"
}

func validateResume(u Upload) error {
	switch {
	case len(u.Data) == 0:
		return apperr.ValidationField("resume", "resume is required")
	case len(u.Data) > MaxResumeBytes:
		return apperr.ValidationField("resume", "resume must be at most 5 MB")
	case sniffContentType(u) != "application/pdf" || !strings.EqualFold(strings.TrimSpace(u.ContentType), "application/pdf"):
		return apperr.ValidationField("resume", "resume must be a PDF file")
	}
	return nil
}
