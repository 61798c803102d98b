package models

import "time"

// Attendance is one registered participation in a training event.
type Attendance struct {
	ID              int64     `db:"id" json:"id"`
	EventName       string    `db:"event_name" json:"event_name"`
	Instructor      string    `db:"instructor" json:"instructor"`
	TeacherName     string    `db:"teacher_name" json:"teacher_name"`
	TeacherProgram  string    `db:"teacher_program" json:"teacher_program"`
	AttendeeID      string    `db:"attendee_id" json:"attendee_id"`
	AttendeeName    string    `db:"attendee_name" json:"attendee_name"`
	AttendeeProgram string    `db:"attendee_program" json:"attendee_program"`
	Modality        string    `db:"modality" json:"modality"`
	AttendeeType    string    `db:"attendee_type" json:"attendee_type"`
	Campus          string    `db:"campus" json:"campus"`
	EventDate       string    `db:"event_date" json:"event_date"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// GroupVisitEvent is the one event type exempt from post-event evaluation.
const GroupVisitEvent = "Visita de Grupos"

// GridColumns lists the attendance columns in the order the frontend table
// renders them. DataTables column indexes refer to this order.
var GridColumns = []string{
	"event_name",
	"instructor",
	"teacher_name",
	"teacher_program",
	"attendee_id",
	"attendee_name",
	"attendee_program",
	"modality",
	"attendee_type",
	"campus",
	"event_date",
}

// GridHeaders maps grid columns to the Spanish headers used on exports.
var GridHeaders = map[string]string{
	"event_name":       "Evento",
	"instructor":       "Dictado por",
	"teacher_name":     "Docente",
	"teacher_program":  "Programa del Docente",
	"attendee_id":      "Número de Identificación",
	"attendee_name":    "Nombre Completo",
	"attendee_program": "Programa del Asistente",
	"modality":         "Modalidad",
	"attendee_type":    "Tipo de Asistente",
	"campus":           "Sede",
	"event_date":       "Fecha del Evento",
}

// AttendanceQuery narrows and orders the attendance listing. Search terms
// are matched accent- and case-insensitively. ColumnFilters is keyed by
// grid column name; Limit <= 0 disables paging.
type AttendanceQuery struct {
	Search        string
	ColumnFilters map[string]string
	DateFrom      string
	DateTo        string
	SortColumn    string
	SortDesc      bool
	Offset        int
	Limit         int
}

// CreateAttendanceRequest carries a self-registration submission. EventDate
// defaults to today when blank.
type CreateAttendanceRequest struct {
	EventName       string `json:"event_name" validate:"required"`
	Instructor      string `json:"instructor" validate:"required"`
	TeacherName     string `json:"teacher_name" validate:"required"`
	TeacherProgram  string `json:"teacher_program" validate:"required"`
	AttendeeID      string `json:"attendee_id" validate:"required"`
	AttendeeName    string `json:"attendee_name" validate:"required"`
	AttendeeProgram string `json:"attendee_program" validate:"required"`
	Modality        string `json:"modality" validate:"required"`
	AttendeeType    string `json:"attendee_type" validate:"required"`
	Campus          string `json:"campus" validate:"required"`
	EventDate       string `json:"event_date"`
}

// CreateAttendanceResponse reports the stored row and whether the attendee
// should be taken to the evaluation form.
type CreateAttendanceResponse struct {
	ID                 int64  `json:"id"`
	EventDate          string `json:"event_date"`
	EvaluationRequired bool   `json:"evaluation_required"`
}

// AttendanceSummary backs the panel cards.
type AttendanceSummary struct {
	TotalRecords     int `json:"total_records"`
	DistinctEvents   int `json:"distinct_events"`
	DistinctPrograms int `json:"distinct_programs"`
	DistinctCampuses int `json:"distinct_campuses"`
}

// ImportResult reports the outcome of an Excel bulk load.
type ImportResult struct {
	Inserted   int      `json:"inserted"`
	Duplicates int      `json:"duplicates"`
	Errors     int      `json:"errors"`
	Samples    []string `json:"duplicate_samples,omitempty"`
}
