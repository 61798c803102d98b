package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type investmentRepoStub struct {
	institutional []models.InstitutionalInvestment
	programs      []models.ProgramInvestment
	nextID        int64
}

func (s *investmentRepoStub) ListInstitutional(ctx context.Context) ([]models.InstitutionalInvestment, error) {
	return s.institutional, nil
}

func (s *investmentRepoStub) CreateInstitutional(ctx context.Context, inv *models.InstitutionalInvestment) (int64, error) {
	for _, existing := range s.institutional {
		if existing.Year == inv.Year {
			return 0, &uniqueViolationErr{}
		}
	}
	s.nextID++
	inv.ID = s.nextID
	s.institutional = append(s.institutional, *inv)
	return s.nextID, nil
}

func (s *investmentRepoStub) ListPrograms(ctx context.Context) ([]models.ProgramInvestment, error) {
	return s.programs, nil
}

func (s *investmentRepoStub) CreateProgram(ctx context.Context, inv *models.ProgramInvestment) (int64, error) {
	for _, existing := range s.programs {
		if existing.Year == inv.Year && existing.Program == inv.Program {
			return 0, &uniqueViolationErr{}
		}
	}
	s.nextID++
	inv.ID = s.nextID
	s.programs = append(s.programs, *inv)
	return s.nextID, nil
}

func TestInvestmentCreateInstitutionalComputesTotal(t *testing.T) {
	svc := NewInvestmentService(&investmentRepoStub{}, nil, nil)

	inv, err := svc.CreateInstitutional(context.Background(), models.CreateInstitutionalInvestmentRequest{
		Year:            2026,
		BooksAmount:     1500000,
		JournalsAmount:  250000,
		DatabasesAmount: 3200000,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4950000, inv.Total, 0.001)
	assert.NotZero(t, inv.ID)
}

func TestInvestmentCreateInstitutionalOnePerYear(t *testing.T) {
	svc := NewInvestmentService(&investmentRepoStub{}, nil, nil)

	req := models.CreateInstitutionalInvestmentRequest{Year: 2025, BooksAmount: 100}
	_, err := svc.CreateInstitutional(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateInstitutional(context.Background(), req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "2025")
}

func TestInvestmentCreateInstitutionalRejectsNegative(t *testing.T) {
	svc := NewInvestmentService(&investmentRepoStub{}, nil, nil)

	_, err := svc.CreateInstitutional(context.Background(), models.CreateInstitutionalInvestmentRequest{
		Year:        2026,
		BooksAmount: -5,
	})
	assert.Error(t, err)
}

func TestInvestmentCreateProgramOnePerYearAndProgram(t *testing.T) {
	svc := NewInvestmentService(&investmentRepoStub{}, nil, nil)

	req := models.CreateProgramInvestmentRequest{
		Year:       2026,
		Program:    "Ingeniería de Sistemas",
		BookTitles: 12,
		BookValue:  480000,
	}
	_, err := svc.CreateProgram(context.Background(), req)
	require.NoError(t, err)

	// Same year, different program is fine.
	other := req
	other.Program = "Derecho"
	_, err = svc.CreateProgram(context.Background(), other)
	require.NoError(t, err)

	_, err = svc.CreateProgram(context.Background(), req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, fmt.Sprintf("%q", "Ingeniería de Sistemas"))
}

func TestInvestmentListPassesThrough(t *testing.T) {
	repo := &investmentRepoStub{
		institutional: []models.InstitutionalInvestment{{ID: 1, Year: 2026, Total: 10}},
		programs:      []models.ProgramInvestment{{ID: 2, Year: 2026, Program: "Derecho"}},
	}
	svc := NewInvestmentService(repo, nil, nil)

	inst, err := svc.ListInstitutional(context.Background())
	require.NoError(t, err)
	assert.Len(t, inst, 1)

	progs, err := svc.ListPrograms(context.Background())
	require.NoError(t, err)
	assert.Len(t, progs, 1)
}
