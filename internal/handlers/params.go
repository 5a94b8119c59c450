package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

// --------------------------------------------------
// Path / query parsing. Each helper writes the 400 itself and reports
// false so handlers can simply return.
// --------------------------------------------------

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}

func boolQuery(c *gin.Context, name string, def bool) (bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_query", "Invalid "+name+".")
		return false, false
	}
	return v, true
}

func intQuery(c *gin.Context, name string, def, min, max int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		httperr.BadRequest(c, "invalid_query", "Invalid "+name+".")
		return 0, false
	}
	return v, true
}

func uintQuery(c *gin.Context, name string) (*uint, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_query", "Invalid "+name+".")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	d, err := timeutil.ParseDate(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid "+name+", expected YYYY-MM-DD.")
		return nil, false
	}
	return &d, true
}

// --------------------------------------------------
// Request bodies
// --------------------------------------------------

func parseDate(c *gin.Context, raw string) (time.Time, bool) {
	d, err := timeutil.ParseDate(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date, expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return d, true
}

func parseTime(c *gin.Context, raw string) (timeutil.TimeOfDay, bool) {
	t, err := timeutil.ParseTimeOfDay(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_time", "Invalid time, expected HH:MM.")
		return 0, false
	}
	return t, true
}

// currentUser must only be used behind AuthMiddleware.
func currentUser(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}
