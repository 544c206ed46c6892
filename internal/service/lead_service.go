package service

import (
	"context"
	"fmt"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/mail"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/security"
)

type LeadInput struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	JobTitle    string `json:"jobTitle"`
	CompanySize string `json:"companySize"`
	Company     string `json:"company"`
	Message     string `json:"message"`
	Budget      string `json:"budget"`
	Source      string `json:"source"`
}

// LeadService keeps contact details encrypted at rest. Callers only ever
// see plaintext leads.
type LeadService struct {
	leads  repository.LeadRepository
	cipher *security.FieldCipher
	mailer Mailer
}

func NewLeadService(leads repository.LeadRepository, cipher *security.FieldCipher, mailer Mailer) *LeadService {
	return &LeadService{leads: leads, cipher: cipher, mailer: mailer}
}

func (s *LeadService) Create(ctx context.Context, in LeadInput) (*domain.Lead, error) {
	email, err := s.cipher.Encrypt(in.Email)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("encrypt lead: %w", err))
	}
	phone, err := s.cipher.Encrypt(in.Phone)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("encrypt lead: %w", err))
	}
	company, err := s.cipher.EncryptOptional(&in.Company)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("encrypt lead: %w", err))
	}
	message, err := s.cipher.EncryptOptional(&in.Message)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("encrypt lead: %w", err))
	}

	lead := &domain.Lead{
		FullName:    in.FullName,
		Email:       email,
		Phone:       phone,
		JobTitle:    in.JobTitle,
		Company:     company,
		CompanySize: in.CompanySize,
		Message:     message,
		Budget:      in.Budget,
		Source:      in.Source,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	enqueueMail(ctx, s.mailer, mail.LeadAcknowledgement, in.Email, mail.LeadData{FullName: in.FullName})
	return s.decrypt(lead)
}

func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decrypt(lead)
}

func (s *LeadService) List(ctx context.Context, query repository.ListQuery) (repository.PageResult[domain.Lead], error) {
	page, err := s.leads.ListPaged(ctx, query)
	if err != nil {
		return page, err
	}
	for i := range page.Items {
		plain, err := s.decrypt(&page.Items[i])
		if err != nil {
			return repository.PageResult[domain.Lead]{}, err
		}
		page.Items[i] = *plain
	}
	return page, nil
}

// MarkOpened updates the opened flag. A nil isOpened leaves it unchanged but
// still stamps updated_by.
func (s *LeadService) MarkOpened(ctx context.Context, id string, isOpened *bool, updatedBy string) (*domain.Lead, error) {
	updates := map[string]any{"updated_by": updatedBy}
	if isOpened != nil {
		updates["is_opened"] = *isOpened
	}
	lead, err := s.leads.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	return s.decrypt(lead)
}

func (s *LeadService) decrypt(l *domain.Lead) (*domain.Lead, error) {
	out := *l
	var err error
	if out.Email, err = s.cipher.Decrypt(l.Email); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decrypt lead %s: %w", l.ID, err))
	}
	if out.Phone, err = s.cipher.Decrypt(l.Phone); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decrypt lead %s: %w", l.ID, err))
	}
	if out.Company, err = s.cipher.DecryptOptional(l.Company); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decrypt lead %s: %w", l.ID, err))
	}
	if out.Message, err = s.cipher.DecryptOptional(l.Message); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decrypt lead %s: %w", l.ID, err))
	}
	return &out, nil
}
