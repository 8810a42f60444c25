package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"microblog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// @Summary      List activity
// @Description  Filter the activity log by time (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and type. A date-only 'to' covers the whole day.
// @Tags         activity
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2026-01-01)
// @Param        to    query   string  false  "End of range, date-only is end of day"  example(2026-01-31)
// @Param        type  query   string  false  "Activity type"  Enums(USER_REGISTERED,LOGIN,LOGOUT,POST_CREATED,POST_LIKED,POST_DELETED)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /activity [get]
func (h *Handler) getActivity(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		typ  = c.Query("type")
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if !strings.ContainsAny(qs, "T ") {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
	}

	events, err := h.services.ActivityLog.List(c.Request.Context(), service.LogFilter{
		From: from,
		To:   to,
		Type: typ,
	})
	if errors.Is(err, service.ErrInvalidTimeRange) || errors.Is(err, service.ErrUnknownActivityType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		if h.log != nil {
			h.log.Errorw("activity_list_failed", "err", err, "from", from, "to", to, "type", typ)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
