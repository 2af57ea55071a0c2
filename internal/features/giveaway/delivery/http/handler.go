package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/common/middleware"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/service"
)

// Sweeper runs a single expiration pass on demand.
type Sweeper interface {
	RunOnce(ctx context.Context, now time.Time) service.SweepReport
}

type GiveawayHandler struct {
	service   service.GiveawayService
	announcer service.Announcer
	sweeper   Sweeper
	logger    zerolog.Logger
	now       func() time.Time
}

func NewGiveawayHandler(svc service.GiveawayService, announcer service.Announcer, sweeper Sweeper, logger zerolog.Logger) *GiveawayHandler {
	return &GiveawayHandler{
		service:   svc,
		announcer: announcer,
		sweeper:   sweeper,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *GiveawayHandler) RegisterRoutes(router *gin.RouterGroup) {
	giveaways := router.Group("/tenants/:tenant_id/giveaways")
	{
		giveaways.POST("", h.create)
		giveaways.GET("", h.listActive)
		giveaways.GET("/:id", h.getByID)
		giveaways.DELETE("/:id", h.delete)
		giveaways.POST("/:id/entries", h.join)
		giveaways.DELETE("/:id/entries/:user_id", h.leave)
		giveaways.POST("/:id/end", h.end)
		giveaways.POST("/:id/reroll", h.reroll)
	}

	router.POST("/sweep", h.sweep)
}

type createRequest struct {
	HostID       string `json:"host_id" binding:"required"`
	ChannelID    string `json:"channel_id" binding:"required"`
	Prize        string `json:"prize" binding:"required"`
	WinnersCount int    `json:"winners_count"`
	Duration     string `json:"duration" binding:"required"`
}

type joinRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type outcomeResponse struct {
	Giveaway *models.Giveaway `json:"giveaway"`
	Winners  []string         `json:"winners"`
	Notified bool             `json:"notified"`
}

func (h *GiveawayHandler) create(c *gin.Context) {
	var input createRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	duration, err := parseDuration(input.Duration)
	if err != nil {
		middleware.AbortWithError(c, errors.NewValidationError("duration", err.Error()))
		return
	}

	g, err := h.service.Create(c.Request.Context(), &models.GiveawayCreate{
		TenantID:     c.Param("tenant_id"),
		HostID:       input.HostID,
		ChannelID:    input.ChannelID,
		Prize:        input.Prize,
		WinnersCount: input.WinnersCount,
		Duration:     duration,
	}, h.now())
	if err != nil {
		middleware.AbortWithError(c, toAppError(err, ""))
		return
	}

	c.JSON(http.StatusCreated, g)
}

func (h *GiveawayHandler) listActive(c *gin.Context) {
	giveaways, err := h.service.ListActive(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err, ""))
		return
	}
	if giveaways == nil {
		giveaways = []*models.Giveaway{}
	}
	c.JSON(http.StatusOK, giveaways)
}

func (h *GiveawayHandler) getByID(c *gin.Context) {
	id := c.Param("id")
	g, err := h.service.Get(c.Request.Context(), c.Param("tenant_id"), id)
	if err != nil {
		middleware.AbortWithError(c, toAppError(err, id))
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GiveawayHandler) delete(c *gin.Context) {
	id := c.Param("id")
	existed, err := h.service.Delete(c.Request.Context(), c.Param("tenant_id"), id)
	if err != nil {
		middleware.AbortWithError(c, toAppError(err, id))
		return
	}
	if !existed {
		middleware.AbortWithError(c, errors.NewGiveawayNotFoundError(id))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GiveawayHandler) join(c *gin.Context) {
	var input joinRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	id := c.Param("id")
	res, err := h.service.Join(c.Request.Context(), c.Param("tenant_id"), id, input.UserID, h.now())
	if err != nil {
		middleware.AbortWithError(c, toAppError(err, id))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *GiveawayHandler) leave(c *gin.Context) {
	id := c.Param("id")
	res, err := h.service.Leave(c.Request.Context(), c.Param("tenant_id"), id, c.Param("user_id"), h.now())
	if err != nil {
		middleware.AbortWithError(c, toAppError(err, id))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *GiveawayHandler) end(c *gin.Context) {
	tenantID, id := c.Param("tenant_id"), c.Param("id")
	outcome, err := h.service.End(c.Request.Context(), tenantID, id, h.now())
	if err != nil {
		middleware.AbortWithError(c, toAppError(err, id))
		return
	}
	if outcome == nil {
		// Absent or already ended: report the current record if there is one.
		g, err := h.service.Get(c.Request.Context(), tenantID, id)
		if err != nil {
			middleware.AbortWithError(c, toAppError(err, id))
			return
		}
		c.JSON(http.StatusOK, outcomeResponse{Giveaway: g, Winners: g.Winners})
		return
	}

	notified := h.notify(c, outcome, h.announcer.Ended)
	c.JSON(http.StatusOK, outcomeResponse{Giveaway: outcome.Giveaway, Winners: outcome.Winners, Notified: notified})
}

func (h *GiveawayHandler) reroll(c *gin.Context) {
	id := c.Param("id")
	outcome, err := h.service.Reroll(c.Request.Context(), c.Param("tenant_id"), id, h.now())
	if err != nil {
		middleware.AbortWithError(c, toAppError(err, id))
		return
	}

	notified := h.notify(c, outcome, h.announcer.Rerolled)
	c.JSON(http.StatusOK, outcomeResponse{Giveaway: outcome.Giveaway, Winners: outcome.Winners, Notified: notified})
}

// notify announces an outcome whose state is already persisted. Failures are
// logged and reported to the caller but never undo the transition.
func (h *GiveawayHandler) notify(c *gin.Context, outcome *models.Outcome, send func(context.Context, *models.Outcome) error) bool {
	if err := send(c.Request.Context(), outcome); err != nil {
		h.logger.Warn().
			Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("tenant_id", outcome.Giveaway.TenantID).
			Str("giveaway_id", outcome.Giveaway.ID).
			Msg("Failed to notify outcome")
		return false
	}
	return true
}

func (h *GiveawayHandler) sweep(c *gin.Context) {
	report := h.sweeper.RunOnce(c.Request.Context(), h.now())
	c.JSON(http.StatusOK, report)
}
