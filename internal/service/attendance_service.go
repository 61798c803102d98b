package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/biblioteca-unival/capacitaciones-api/internal/dto"
	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/export"
)

const (
	eventDateLayout   = "2006-01-02"
	displayDateLayout = "02/01/2006"

	cleanupNoticeKey  = "notices:startup_cleanup"
	statsCachePattern = "stats:*"
)

type attendanceRepository interface {
	Insert(ctx context.Context, a *models.Attendance) (int64, error)
	Exists(ctx context.Context, attendeeID, eventName, eventDate string) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.Attendance, error)
	CountAll(ctx context.Context) (int, error)
	CountFiltered(ctx context.Context, q models.AttendanceQuery) (int, error)
	List(ctx context.Context, q models.AttendanceQuery) ([]models.Attendance, error)
	Summary(ctx context.Context) (*models.AttendanceSummary, error)
}

type noticeStore interface {
	SetNotice(ctx context.Context, key, message string, ttl time.Duration) error
	TakeNotice(ctx context.Context, key string) (string, error)
}

// AttendanceService implements registration, the server-side grid, Excel
// import/export and the registration QR code.
type AttendanceService struct {
	repo      attendanceRepository
	notices   noticeStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger

	registrationURL string

	mu            sync.Mutex
	pendingNotice string
}

func NewAttendanceService(repo attendanceRepository, notices noticeStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger, registrationURL string) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AttendanceService{
		repo:            repo,
		notices:         notices,
		cache:           cache,
		validator:       validate,
		logger:          logger,
		registrationURL: registrationURL,
	}
}

// Create registers one attendance. The duplicate pre-check gives a friendly
// message; the unique index catches the remaining race and is translated to
// the same error.
func (s *AttendanceService) Create(ctx context.Context, req models.CreateAttendanceRequest) (*models.CreateAttendanceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"todos los campos del formulario son obligatorios")
	}

	eventDate := strings.TrimSpace(req.EventDate)
	if eventDate == "" {
		eventDate = time.Now().Format(eventDateLayout)
	}
	parsed, err := time.Parse(eventDateLayout, eventDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "la fecha del evento debe tener el formato AAAA-MM-DD")
	}

	exists, err := s.repo.Exists(ctx, req.AttendeeID, req.EventName, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicates")
	}
	if exists {
		return nil, s.duplicateError(req.EventName, parsed)
	}

	id, err := s.repo.Insert(ctx, &models.Attendance{
		EventName:       req.EventName,
		Instructor:      req.Instructor,
		TeacherName:     req.TeacherName,
		TeacherProgram:  req.TeacherProgram,
		AttendeeID:      req.AttendeeID,
		AttendeeName:    req.AttendeeName,
		AttendeeProgram: req.AttendeeProgram,
		Modality:        req.Modality,
		AttendeeType:    req.AttendeeType,
		Campus:          req.Campus,
		EventDate:       eventDate,
	})
	if err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, s.duplicateError(req.EventName, parsed)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attendance")
	}

	s.cache.InvalidatePattern(ctx, statsCachePattern)

	return &models.CreateAttendanceResponse{
		ID:                 id,
		EventDate:          eventDate,
		EvaluationRequired: req.EventName != models.GroupVisitEvent,
	}, nil
}

func (s *AttendanceService) duplicateError(eventName string, eventDate time.Time) error {
	return appErrors.Clone(appErrors.ErrDuplicateAttendance, fmt.Sprintf(
		"ya existe un registro para este evento %q con fecha %s",
		eventName, eventDate.Format(displayDateLayout)))
}

// Grid serves the DataTables server-side protocol.
func (s *AttendanceService) Grid(ctx context.Context, req dto.GridRequest) (*dto.GridResponse, error) {
	query := s.toQuery(req)

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count attendances")
	}

	filtered := total
	if query.Search != "" || len(query.ColumnFilters) > 0 {
		filtered, err = s.repo.CountFiltered(ctx, query)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count filtered attendances")
		}
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendances")
	}

	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = gridRow(row)
	}

	return &dto.GridResponse{
		Draw:            req.Draw,
		RecordsTotal:    total,
		RecordsFiltered: filtered,
		Data:            data,
	}, nil
}

// toQuery maps positional DataTables parameters onto whitelisted column
// names.
func (s *AttendanceService) toQuery(req dto.GridRequest) models.AttendanceQuery {
	query := models.AttendanceQuery{
		Search:        req.Search,
		ColumnFilters: make(map[string]string),
		SortColumn:    "event_date",
		SortDesc:      req.SortDesc,
		Offset:        req.Start,
		Limit:         req.Length,
	}

	if req.SortColumn >= 0 && req.SortColumn < len(models.GridColumns) {
		query.SortColumn = models.GridColumns[req.SortColumn]
	}
	for idx, term := range req.ColumnFilters {
		if idx >= 0 && idx < len(models.GridColumns) {
			query.ColumnFilters[models.GridColumns[idx]] = term
		}
	}

	return query
}

func gridRow(a models.Attendance) []string {
	return []string{
		a.EventName, a.Instructor, a.TeacherName, a.TeacherProgram,
		a.AttendeeID, a.AttendeeName, a.AttendeeProgram,
		a.Modality, a.AttendeeType, a.Campus, a.EventDate,
	}
}

// Summary returns the panel card counts plus any pending one-shot cleanup
// notice.
func (s *AttendanceService) Summary(ctx context.Context) (*models.AttendanceSummary, string, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build summary")
	}

	return summary, s.takeCleanupNotice(ctx), nil
}

// RecordCleanupNotice stores the startup-dedup message until the next panel
// load consumes it.
func (s *AttendanceService) RecordCleanupNotice(ctx context.Context, removed int64) {
	if removed <= 0 {
		return
	}
	message := fmt.Sprintf("Se eliminaron %d registros duplicados durante el mantenimiento", removed)

	if s.notices != nil {
		if err := s.notices.SetNotice(ctx, cleanupNoticeKey, message, 7*24*time.Hour); err == nil {
			return
		}
	}

	s.mu.Lock()
	s.pendingNotice = message
	s.mu.Unlock()
}

func (s *AttendanceService) takeCleanupNotice(ctx context.Context) string {
	if s.notices != nil {
		if message, err := s.notices.TakeNotice(ctx, cleanupNoticeKey); err == nil && message != "" {
			return message
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	message := s.pendingNotice
	s.pendingNotice = ""

	return message
}

// Export renders the filtered listing as an Excel workbook or CSV.
func (s *AttendanceService) Export(ctx context.Context, req dto.GridRequest, format string) ([]byte, string, string, error) {
	query := s.toQuery(req)
	query.Offset = 0
	query.Limit = 0

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendances")
	}

	dataset := attendanceDataset(rows)
	stamp := time.Now().Format("20060102")

	if format == "csv" {
		payload, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, fmt.Sprintf("asistencias_%s.csv", stamp), "text/csv", nil
	}

	payload, err := export.NewExcelExporter().Render(dataset)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render excel")
	}

	return payload, fmt.Sprintf("asistencias_%s.xlsx", stamp),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
}

func attendanceDataset(rows []models.Attendance) export.Dataset {
	headers := make([]string, len(models.GridColumns))
	for i, col := range models.GridColumns {
		headers[i] = models.GridHeaders[col]
	}

	dataset := export.Dataset{Title: "Asistencias", Headers: headers}
	for _, row := range rows {
		cells := gridRow(row)
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			record[header] = cells[i]
		}
		dataset.Rows = append(dataset.Rows, record)
	}

	return dataset
}

// Import bulk-loads attendances from an .xlsx upload. Rows hitting the
// unique index are skipped and counted; the first few are echoed back.
func (s *AttendanceService) Import(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "el archivo no es un Excel válido (.xlsx)")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "no se pudo leer la hoja de cálculo")
	}
	if len(rows) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "el archivo no contiene filas de datos")
	}

	index, err := importColumnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{}
	for i, row := range rows[1:] {
		attendance, rowErr := importRow(row, index)
		if rowErr != nil {
			result.Errors++
			continue
		}

		if _, err := s.repo.Insert(ctx, attendance); err != nil {
			if appErrors.IsUniqueViolation(err) {
				result.Duplicates++
				if len(result.Samples) < 5 {
					result.Samples = append(result.Samples, fmt.Sprintf("Fila %d: %s - %s - %s",
						i+2, attendance.AttendeeName, attendance.EventName, attendance.EventDate))
				}
				continue
			}
			s.logger.Warn("import row failed", zap.Int("row", i+2), zap.Error(err))
			result.Errors++
			continue
		}
		result.Inserted++
	}

	if result.Inserted > 0 {
		s.cache.InvalidatePattern(ctx, statsCachePattern)
	}

	return result, nil
}

// importColumnIndex locates each expected column by its Spanish header,
// matching the headers Export writes.
func importColumnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(models.GridColumns))
	for i, cell := range header {
		for col, label := range models.GridHeaders {
			if strings.EqualFold(strings.TrimSpace(cell), label) {
				index[col] = i
			}
		}
	}

	var missing []string
	for _, col := range models.GridColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, models.GridHeaders[col])
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			"faltan las columnas: "+strings.Join(missing, ", "))
	}

	return index, nil
}

func importRow(row []string, index map[string]int) (*models.Attendance, error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	a := &models.Attendance{
		EventName:       cell("event_name"),
		Instructor:      cell("instructor"),
		TeacherName:     cell("teacher_name"),
		TeacherProgram:  cell("teacher_program"),
		AttendeeID:      cell("attendee_id"),
		AttendeeName:    cell("attendee_name"),
		AttendeeProgram: cell("attendee_program"),
		Modality:        cell("modality"),
		AttendeeType:    cell("attendee_type"),
		Campus:          cell("campus"),
		EventDate:       cell("event_date"),
	}

	if a.EventName == "" || a.AttendeeID == "" || a.EventDate == "" {
		return nil, fmt.Errorf("missing required cells")
	}
	if _, err := time.Parse(eventDateLayout, a.EventDate); err != nil {
		return nil, fmt.Errorf("invalid event date %q", a.EventDate)
	}

	return a, nil
}

// QRCode renders the public registration URL as a PNG.
func (s *AttendanceService) QRCode(size int) ([]byte, error) {
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := qrcode.Encode(s.registrationURL, qrcode.Medium, size)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr code")
	}

	return png, nil
}

// FindByID exposes one attendance row, used as the evaluation form context.
func (s *AttendanceService) FindByID(ctx context.Context, id int64) (*models.Attendance, error) {
	attendance, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "el registro de asistencia no existe")
	}

	return attendance, nil
}
