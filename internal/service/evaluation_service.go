package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type evaluationRepository interface {
	Insert(ctx context.Context, e *models.Evaluation) (int64, error)
	ExistsForAttendance(ctx context.Context, attendanceID int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.Evaluation, error)
}

type evaluationAttendanceRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Attendance, error)
}

// EvaluationService stores post-event evaluations, one per attendance.
type EvaluationService struct {
	repo        evaluationRepository
	attendances evaluationAttendanceRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewEvaluationService(repo evaluationRepository, attendances evaluationAttendanceRepository, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EvaluationService{repo: repo, attendances: attendances, validator: validate, logger: logger}
}

// Context returns the attendance row shown above the evaluation form.
func (s *EvaluationService) Context(ctx context.Context, attendanceID int64) (*models.Attendance, error) {
	attendance, err := s.attendances.FindByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "el registro de asistencia no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch attendance")
	}

	return attendance, nil
}

// Create stores one evaluation. Group visits are exempt, and the pre-check
// plus the UNIQUE(attendance_id) constraint keep it to one per attendance.
func (s *EvaluationService) Create(ctx context.Context, req models.CreateEvaluationRequest) (*models.Evaluation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"las cinco calificaciones deben estar entre 1 y 5")
	}

	attendance, err := s.Context(ctx, req.AttendanceID)
	if err != nil {
		return nil, err
	}
	if attendance.EventName == models.GroupVisitEvent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "las visitas de grupos no requieren evaluación")
	}

	exists, err := s.repo.ExistsForAttendance(ctx, req.AttendanceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check evaluation")
	}
	if exists {
		return nil, appErrors.ErrEvaluationExists
	}

	evaluation := &models.Evaluation{
		AttendanceID:     req.AttendanceID,
		ContentQuality:   req.ContentQuality,
		Methodology:      req.Methodology,
		ClearLanguage:    req.ClearLanguage,
		GroupManagement:  req.GroupManagement,
		QuestionHandling: req.QuestionHandling,
	}
	if req.Comments != "" {
		evaluation.Comments = &req.Comments
	}

	id, err := s.repo.Insert(ctx, evaluation)
	if err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.ErrEvaluationExists
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store evaluation")
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		// The row exists; fall back to the input when reading back fails.
		s.logger.Warn("evaluation read-back failed", zap.Int64("id", id), zap.Error(err))
		evaluation.ID = id
		return evaluation, nil
	}

	return stored, nil
}
