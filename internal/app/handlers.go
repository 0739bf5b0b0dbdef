package app

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/team-final-project-3/be-temucs-sub000/internal/scheduling"
	"github.com/team-final-project-3/be-temucs-sub000/internal/store"
)

type App struct {
	Scheduler *scheduling.Scheduler
	Tickets   *store.TicketStore
	Log       *slog.Logger
}

// POST /api/branches/:id/tickets
func (a *App) CreateTicketHandler(c *gin.Context) {
	branchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch id"})
		return
	}

	var req createTicketReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestedAt := time.Now()
	if req.BookingDate != "" {
		requestedAt, err = time.Parse(time.RFC3339, req.BookingDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_date"})
			return
		}
	}

	ticket, err := a.Scheduler.Schedule(c.Request.Context(), branchID, req.CustomerPhone, requestedAt, req.ServiceIDs)
	if err != nil {
		a.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// GET /api/tickets/:id
func (a *App) GetTicketHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	ctx := c.Request.Context()
	ticket, err := a.Tickets.GetTicket(ctx, id)
	if err != nil {
		a.renderError(c, err)
		return
	}
	logs, err := a.Tickets.ListLogs(ctx, id)
	if err != nil {
		a.renderError(c, err)
		return
	}

	history := make([]ticketLogResp, 0, len(logs))
	for _, l := range logs {
		history = append(history, ticketLogResp{
			Status:    string(l.Status),
			Reason:    l.Reason,
			Actor:     l.Actor,
			CreatedAt: l.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket, "history": history})
}

// GET /api/branches/:id/tickets?date=YYYY-MM-DD
func (a *App) ListBranchDayHandler(c *gin.Context) {
	branchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch id"})
		return
	}

	day := time.Now().In(scheduling.LocalZone())
	if dateStr := c.Query("date"); dateStr != "" {
		day, err = time.ParseInLocation("2006-01-02", dateStr, scheduling.LocalZone())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
	}

	fromUTC, toUTC := scheduling.LocalDayWindow(day)
	tickets, err := a.Tickets.ListByLocalDay(c.Request.Context(), branchID, fromUTC, toUTC)
	if err != nil {
		a.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets, "count": len(tickets)})
}

// PATCH /api/tickets/:id/status
func (a *App) UpdateStatusHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var req updateStatusReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := c.GetString(actorKey)
	if actor == "" {
		actor = "staff"
	}

	ticket, err := a.Scheduler.TransitionStatus(c.Request.Context(), id, scheduling.TicketStatus(req.Status), actor)
	if err != nil {
		a.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// renderError maps the core error taxonomy onto HTTP codes. Opaque store
// failures become 500s and get logged with full detail here, once.
func (a *App) renderError(c *gin.Context, err error) {
	switch scheduling.ClassifyError(err) {
	case scheduling.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case scheduling.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case scheduling.KindBusinessRule:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case scheduling.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if a.Log != nil {
			a.Log.Error("request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
