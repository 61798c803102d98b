package models

// StatsFilter narrows the statistics overview. Empty date bounds fall back
// to the trailing window on the event year.
type StatsFilter struct {
	Event    string `form:"event" json:"event"`
	Program  string `form:"program" json:"program"`
	DateFrom string `form:"date_from" json:"date_from"`
	DateTo   string `form:"date_to" json:"date_to"`
}

// CountItem is a generic label/count pair for breakdowns.
type CountItem struct {
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

// CrossTabCell is one event × program combination.
type CrossTabCell struct {
	Event   string `db:"event" json:"event"`
	Program string `db:"program" json:"program"`
	Count   int    `db:"count" json:"count"`
}

// EventProgramRank is one top-program-per-event row.
type EventProgramRank struct {
	Event   string `db:"event" json:"event"`
	Program string `db:"program" json:"program"`
	Count   int    `db:"count" json:"count"`
	Rank    int    `db:"rank" json:"rank"`
}

// StatsTotals groups the headline numbers.
type StatsTotals struct {
	Attendances      int     `json:"attendances"`
	DistinctEvents   int     `json:"distinct_events"`
	DistinctPrograms int     `json:"distinct_programs"`
	AverageScore     float64 `json:"average_evaluation"`
}

// StatsOverview is the full dashboard payload.
type StatsOverview struct {
	Totals             StatsTotals        `json:"totals"`
	ByEvent            []CountItem        `json:"by_event"`
	ByProgramModality  []CountItem        `json:"by_program_modality"`
	CrossTab           []CrossTabCell     `json:"cross_tab"`
	MonthlyTrend       []CountItem        `json:"monthly_trend"`
	TopProgramsByEvent []EventProgramRank `json:"top_programs_by_event"`
	ByAttendeeType     []CountItem        `json:"by_attendee_type"`
	ByModality         []CountItem        `json:"by_modality"`
	EventOptions       []string           `json:"event_options"`
	ProgramOptions     []string           `json:"program_options"`
	WindowStartYear    int                `json:"window_start_year,omitempty"`
}
