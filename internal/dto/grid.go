// Package dto holds request and response shapes that do not map directly
// onto stored models.
package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// GridRequest is the DataTables server-side protocol request: paging,
// global search, one sort column, and optional per-column filters indexed
// by column position.
type GridRequest struct {
	Draw          int
	Start         int
	Length        int
	Search        string
	SortColumn    int
	SortDesc      bool
	ColumnFilters map[int]string
}

// GridResponse is the DataTables server-side protocol response. Data rows
// are positional, matching the table column order.
type GridResponse struct {
	Draw            int        `json:"draw"`
	RecordsTotal    int        `json:"recordsTotal"`
	RecordsFiltered int        `json:"recordsFiltered"`
	Data            [][]string `json:"data"`
}

// ParseGridRequest reads the DataTables query parameters. columnCount caps
// the per-column filter scan.
func ParseGridRequest(c *gin.Context, columnCount int) GridRequest {
	req := GridRequest{
		Draw:          intQuery(c, "draw", 1),
		Start:         intQuery(c, "start", 0),
		Length:        intQuery(c, "length", 25),
		Search:        c.Query("search[value]"),
		SortColumn:    intQuery(c, "order[0][column]", columnCount-1),
		ColumnFilters: make(map[int]string),
	}

	if req.Start < 0 {
		req.Start = 0
	}
	if req.Length <= 0 || req.Length > 1000 {
		req.Length = 25
	}

	req.SortDesc = c.DefaultQuery("order[0][dir]", "desc") != "asc"

	for i := 0; i < columnCount; i++ {
		key := "columns[" + strconv.Itoa(i) + "][search][value]"
		if v := c.Query(key); v != "" {
			req.ColumnFilters[i] = v
		}
	}

	return req
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return n
}
