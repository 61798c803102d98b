package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type evaluationRepoStub struct {
	byAttendance map[int64]models.Evaluation
	nextID       int64
}

func (s *evaluationRepoStub) Insert(ctx context.Context, e *models.Evaluation) (int64, error) {
	if _, ok := s.byAttendance[e.AttendanceID]; ok {
		return 0, &uniqueViolationErr{}
	}
	if s.byAttendance == nil {
		s.byAttendance = make(map[int64]models.Evaluation)
	}
	s.nextID++
	e.ID = s.nextID
	e.Average = float64(e.ContentQuality+e.Methodology+e.ClearLanguage+e.GroupManagement+e.QuestionHandling) / 5.0
	s.byAttendance[e.AttendanceID] = *e
	return s.nextID, nil
}

func (s *evaluationRepoStub) ExistsForAttendance(ctx context.Context, attendanceID int64) (bool, error) {
	_, ok := s.byAttendance[attendanceID]
	return ok, nil
}

func (s *evaluationRepoStub) FindByID(ctx context.Context, id int64) (*models.Evaluation, error) {
	for _, e := range s.byAttendance {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

type evaluationAttendanceStub struct {
	rows map[int64]models.Attendance
}

func (s *evaluationAttendanceStub) FindByID(ctx context.Context, id int64) (*models.Attendance, error) {
	if a, ok := s.rows[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func validEvaluationRequest() models.CreateEvaluationRequest {
	return models.CreateEvaluationRequest{
		AttendanceID:     1,
		ContentQuality:   5,
		Methodology:      4,
		ClearLanguage:    5,
		GroupManagement:  4,
		QuestionHandling: 4,
		Comments:         "Muy buen taller",
	}
}

func newEvaluationService(attendanceEvent string) (*EvaluationService, *evaluationRepoStub) {
	repo := &evaluationRepoStub{}
	attendances := &evaluationAttendanceStub{rows: map[int64]models.Attendance{
		1: {ID: 1, EventName: attendanceEvent, AttendeeName: "Ana Gómez"},
	}}
	return NewEvaluationService(repo, attendances, nil, nil), repo
}

func TestEvaluationCreateComputesAverage(t *testing.T) {
	svc, _ := newEvaluationService("Taller de Normas APA")

	evaluation, err := svc.Create(context.Background(), validEvaluationRequest())
	require.NoError(t, err)
	assert.InDelta(t, 4.4, evaluation.Average, 0.001)
	require.NotNil(t, evaluation.Comments)
	assert.Equal(t, "Muy buen taller", *evaluation.Comments)
}

func TestEvaluationCreateOnlyOncePerAttendance(t *testing.T) {
	svc, _ := newEvaluationService("Taller de Normas APA")

	_, err := svc.Create(context.Background(), validEvaluationRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validEvaluationRequest())
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrEvaluationExists.Code, appErr.Code)
}

func TestEvaluationCreateRejectsGroupVisit(t *testing.T) {
	svc, repo := newEvaluationService(models.GroupVisitEvent)

	_, err := svc.Create(context.Background(), validEvaluationRequest())
	require.Error(t, err)
	assert.Empty(t, repo.byAttendance)
}

func TestEvaluationCreateRatingsOutOfRange(t *testing.T) {
	svc, _ := newEvaluationService("Taller de Normas APA")

	req := validEvaluationRequest()
	req.Methodology = 6
	_, err := svc.Create(context.Background(), req)
	assert.Error(t, err)

	req = validEvaluationRequest()
	req.ContentQuality = 0
	_, err = svc.Create(context.Background(), req)
	assert.Error(t, err)
}

func TestEvaluationContextMissingAttendance(t *testing.T) {
	svc, _ := newEvaluationService("Taller de Normas APA")

	_, err := svc.Context(context.Background(), 99)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
