package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type investmentRepository interface {
	ListInstitutional(ctx context.Context) ([]models.InstitutionalInvestment, error)
	CreateInstitutional(ctx context.Context, inv *models.InstitutionalInvestment) (int64, error)
	ListPrograms(ctx context.Context) ([]models.ProgramInvestment, error)
	CreateProgram(ctx context.Context, inv *models.ProgramInvestment) (int64, error)
}

// InvestmentService manages the two yearly investment registers.
type InvestmentService struct {
	repo      investmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewInvestmentService(repo investmentRepository, validate *validator.Validate, logger *zap.Logger) *InvestmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InvestmentService{repo: repo, validator: validate, logger: logger}
}

// ListInstitutional returns library-wide rows, newest year first.
func (s *InvestmentService) ListInstitutional(ctx context.Context) ([]models.InstitutionalInvestment, error) {
	rows, err := s.repo.ListInstitutional(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list institutional investments")
	}

	return rows, nil
}

// CreateInstitutional stores one year's figures; one row per year.
func (s *InvestmentService) CreateInstitutional(ctx context.Context, req models.CreateInstitutionalInvestmentRequest) (*models.InstitutionalInvestment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"el año es obligatorio y los montos no pueden ser negativos")
	}

	inv := &models.InstitutionalInvestment{
		Year:            req.Year,
		BooksAmount:     req.BooksAmount,
		JournalsAmount:  req.JournalsAmount,
		DatabasesAmount: req.DatabasesAmount,
	}
	if req.Notes != "" {
		inv.Notes = &req.Notes
	}

	id, err := s.repo.CreateInstitutional(ctx, inv)
	if err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("ya existe un registro para el año %d", req.Year))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store institutional investment")
	}

	inv.ID = id
	inv.Total = req.BooksAmount + req.JournalsAmount + req.DatabasesAmount

	return inv, nil
}

// ListPrograms returns per-program rows ordered year DESC, program ASC.
func (s *InvestmentService) ListPrograms(ctx context.Context) ([]models.ProgramInvestment, error) {
	rows, err := s.repo.ListPrograms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list program investments")
	}

	return rows, nil
}

// CreateProgram stores one (year, program) row.
func (s *InvestmentService) CreateProgram(ctx context.Context, req models.CreateProgramInvestmentRequest) (*models.ProgramInvestment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"el año y el programa son obligatorios; los valores no pueden ser negativos")
	}

	inv := &models.ProgramInvestment{
		Year:            req.Year,
		Program:         req.Program,
		BookTitles:      req.BookTitles,
		BookVolumes:     req.BookVolumes,
		BookValue:       req.BookValue,
		JournalTitles:   req.JournalTitles,
		JournalValue:    req.JournalValue,
		DonationTitles:  req.DonationTitles,
		DonationVolumes: req.DonationVolumes,
		DonationTheses:  req.DonationTheses,
	}
	if req.Notes != "" {
		inv.Notes = &req.Notes
	}

	id, err := s.repo.CreateProgram(ctx, inv)
	if err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf(
				"ya existe un registro para %q en el año %d", req.Program, req.Year))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store program investment")
	}

	inv.ID = id

	return inv, nil
}
