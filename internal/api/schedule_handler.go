package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ScheduleSync/internal/model"
	"ScheduleSync/internal/service"
	"ScheduleSync/internal/timeutil"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ScheduleRunner runs the pipeline for one target date
type ScheduleRunner interface {
	RunForDate(ctx context.Context, date time.Time) (*service.PublishResult, error)
}

// RunLister reads the run log
type RunLister interface {
	ListRuns(ctx context.Context, date string, limit int) ([]*model.ScheduleRun, error)
}

type ScheduleHandler struct {
	runner     ScheduleRunner
	runs       RunLister // nil when no database is configured
	normalizer *timeutil.Normalizer
	logger     *logrus.Logger
	now        func() time.Time
}

func NewScheduleHandler(runner ScheduleRunner, runs RunLister, normalizer *timeutil.Normalizer, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		runner:     runner,
		runs:       runs,
		normalizer: normalizer,
		logger:     logger,
		now:        time.Now,
	}
}

// RunSchedule builds and publishes the schedule for one date
// POST /schedule/run?date=2024-05-01 (default: today, Eastern)
func (h *ScheduleHandler) RunSchedule(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}

	res, err := h.runner.RunForDate(c.Request.Context(), date)
	if err != nil {
		var fe *model.FetchError
		status := http.StatusInternalServerError
		if errors.As(err, &fe) {
			status = http.StatusBadGateway
		}
		h.logger.WithError(err).WithField("date", h.normalizer.CalendarDate(date)).Error("RunSchedule failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListRuns recent run log rows
// GET /schedule/runs?date=2024-05-01&limit=20
func (h *ScheduleHandler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run log disabled"})
		return
	}
	date := c.Query("date")
	if date != "" {
		if _, err := h.normalizer.ParseDate(date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.runs.ListRuns(c.Request.Context(), date, limit)
	if err != nil {
		h.logger.WithError(err).Error("ListRuns failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// Healthz GET /healthz
func (h *ScheduleHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ScheduleHandler) dateParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return h.normalizer.Today(h.now()), true
	}
	date, err := h.normalizer.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	return date, true
}
