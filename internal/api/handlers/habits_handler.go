package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Alejandro-Araujo/habitjourney-backend/internal/api/dto"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/api/middleware"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/domain/habits"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
}

// HabitsHandler handles HTTP requests for habits operations
type HabitsHandler struct {
	service habits.Service
}

// NewHabitsHandler creates a new HabitsHandler instance
func NewHabitsHandler(service habits.Service) *HabitsHandler {
	return &HabitsHandler{service: service}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, habits.ErrHabitNotFound):
		return http.StatusNotFound
	case errors.Is(err, habits.ErrInvalidHabitConfig), errors.Is(err, habits.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateHabit creates a new habit for the authenticated user
func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	weekdays, err := intsToWeekdays(req.ScheduledWeekdays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	input := habits.CreateHabitInput{
		UserID:            userID,
		Name:              req.Name,
		Description:       req.Description,
		Kind:              habits.HabitKind(req.Kind),
		Frequency:         habits.Frequency(req.Frequency),
		ScheduledWeekdays: weekdays,
		DailyTarget:       req.DailyTarget,
		StartDate:         startDate,
		EndDate:           endDate,
	}
	if input.Kind == "" {
		input.Kind = habits.KindDo
	}
	if input.Frequency == "" {
		input.Frequency = habits.FrequencyDaily
	}

	createdHabit, err := h.service.CreateHabit(c.Request.Context(), input)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": HabitToResponse(createdHabit)})
}

// GetHabit returns a single habit by ID
func (h *HabitsHandler) GetHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	habit, err := h.service.GetHabit(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit)})
}

// ListHabits returns the authenticated user's habits, newest first
func (h *HabitsHandler) ListHabits(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page number"})
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page size"})
		return
	}
	includeArchived := c.DefaultQuery("include_archived", "false") == "true"

	filter := habits.HabitFilter{
		UserID:          &userID,
		IncludeArchived: includeArchived,
		Page:            page,
		PageSize:        pageSize,
	}

	habitsData, total, err := h.service.ListHabits(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.HabitResponse, len(habitsData))
	for i := range habitsData {
		responses[i] = *HabitToResponse(&habitsData[i])
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitListResponse{
		Habits:     responses,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}})
}

// UpdateHabit updates an existing habit
func (h *HabitsHandler) UpdateHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := habits.UpdateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		DailyTarget: req.DailyTarget,
	}

	if req.Kind != nil {
		kind := habits.HabitKind(*req.Kind)
		input.Kind = &kind
	}
	if req.Frequency != nil {
		freq := habits.Frequency(*req.Frequency)
		input.Frequency = &freq
	}
	if req.ScheduledWeekdays != nil {
		weekdays, err := intsToWeekdays(*req.ScheduledWeekdays)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.ScheduledWeekdays = &weekdays
	}
	if input.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	if input.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	habit, err := h.service.UpdateHabit(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit)})
}

// DeleteHabit removes a habit and its log history
func (h *HabitsHandler) DeleteHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	if err := h.service.DeleteHabit(c.Request.Context(), id); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "habit deleted"})
}

// ArchiveHabit excludes a habit from due/active queries while keeping history
func (h *HabitsHandler) ArchiveHabit(c *gin.Context) {
	h.setArchived(c, true)
}

// UnarchiveHabit returns a habit to due/active queries
func (h *HabitsHandler) UnarchiveHabit(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *HabitsHandler) setArchived(c *gin.Context, archived bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	if err := h.service.SetArchived(c.Request.Context(), id, archived); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"archived": archived})
}

// RecordProgress logs progress for a habit on a date, replacing any prior
// entry for the same day
func (h *HabitsHandler) RecordProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	var req dto.RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	input := habits.RecordProgressInput{
		HabitID: id,
		Date:    date,
		Value:   req.Value,
	}
	if req.Status != nil {
		status := habits.LogStatus(*req.Status)
		input.Status = &status
	}

	logEntry, err := h.service.RecordProgress(c.Request.Context(), input)
	if err != nil {
		log.WithFields(logrus.Fields{"habit_id": id, "date": req.Date}).
			WithError(err).Error("failed to record progress")
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": LogToResponse(logEntry)})
}

// GetHabitsDueToday returns the habits due on the given date (default today)
// with each one's progress
func (h *HabitsHandler) GetHabitsDueToday(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	today := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := parseDate(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		today = parsed
	}

	items, err := h.service.DueToday(c.Request.Context(), userID, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.DueTodayItemResponse, len(items))
	for i := range items {
		responses[i] = DueTodayItemToResponse(&items[i])
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.DueTodayResponse{
		Date:   habits.DayOf(today).Format(dto.DateFormat),
		Habits: responses,
	}})
}

// GetHabitLogs returns a habit's log history, optionally windowed
func (h *HabitsHandler) GetHabitLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	var start, end *time.Time
	if s := c.Query("start_date"); s != "" {
		if start, err = parseOptionalDate(&s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
	}
	if s := c.Query("end_date"); s != "" {
		if end, err = parseOptionalDate(&s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
	}

	logs, err := h.service.GetHabitLogs(c.Request.Context(), id, start, end)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.HabitLogResponse, len(logs))
	for i := range logs {
		responses[i] = *LogToResponse(&logs[i])
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// GetHabitStats returns streak and completion statistics for a habit
func (h *HabitsHandler) GetHabitStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	stats, err := h.service.GetHabitStats(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitStatsResponse{
		HabitID:        stats.HabitID,
		CurrentStreak:  stats.CurrentStreak,
		LongestStreak:  stats.LongestStreak,
		CompletionRate: stats.CompletionRate,
		TotalLogs:      stats.TotalLogs,
	}})
}

// GetCompletionRate returns the completed-log ratio for a date range
func (h *HabitsHandler) GetCompletionRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	rate, err := h.service.CompletionRate(c.Request.Context(), id, start, end)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.CompletionRateResponse{
		HabitID:        id,
		StartDate:      start.Format(dto.DateFormat),
		EndDate:        end.Format(dto.DateFormat),
		CompletionRate: rate,
	}})
}

// GetHabitHeatmap returns per-day completed counts for the heatmap view
func (h *HabitsHandler) GetHabitHeatmap(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	period := c.DefaultQuery("period", "year")

	data, err := h.service.GetHeatmapData(c.Request.Context(), userID, period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	minValue, maxValue := 0, 0
	for _, count := range data {
		if count > maxValue {
			maxValue = count
		}
		if minValue == 0 || count < minValue {
			minValue = count
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HeatmapResponse{
		Data:     data,
		Period:   period,
		MinValue: minValue,
		MaxValue: maxValue,
	}})
}

// GetDashboardMetrics returns summary counts for the dashboard header
func (h *HabitsHandler) GetDashboardMetrics(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	metrics, err := h.service.GetDashboardMetrics(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.DashboardMetricsResponse{
		DueToday:       metrics.DueToday,
		CompletedToday: metrics.CompletedToday,
		TotalActive:    metrics.TotalActive,
		BestStreak:     metrics.BestStreak,
	}})
}
