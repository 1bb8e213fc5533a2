package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/application"
	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
	"github.com/oksasatya/restaurant-review-api/pkg/response"
)

type ReviewHandler struct {
	Reviews *application.ReviewService
	Logger  logrus.FieldLogger
}

func NewReviewHandler(reviews *application.ReviewService, logger logrus.FieldLogger) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Logger: logger}
}

type restaurantURI struct {
	RestaurantID string `uri:"restaurant_id" binding:"required,uuid"`
}

// Rating outside 1..5, including absent, lists every review.
type reviewListQuery struct {
	pageQuery
	Rating int `form:"rating"`
}

type reviewRequest struct {
	Rating int    `json:"rating" binding:"required,rating"`
	Review string `json:"review" binding:"required,notblank,max=1024"`
}

// List GET /api/v1/reviews/:restaurant_id
func (h *ReviewHandler) List(c *gin.Context) {
	var uri restaurantURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, err)
		return
	}
	var q reviewListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := application.NewPage(q.Offset, q.Limit, application.DefaultPageSize)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	items, n, err := h.Reviews.List(c.Request.Context(), uri.RestaurantID, q.Rating, page.Offset, page.Limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]reviewResponse, 0, len(items))
	for i := range items {
		out = append(out, toReviewResponse(&items[i]))
	}
	response.Success(c, http.StatusOK, out, "ok", response.ListMeta{Count: n, Offset: page.Offset, Limit: page.Limit})
}

// Create POST /api/v1/review/:restaurant_id
func (h *ReviewHandler) Create(c *gin.Context) {
	var uri restaurantURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, err)
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rv, err := h.Reviews.Create(c.Request.Context(), uri.RestaurantID, middleware.Subject(c), req.Rating, req.Review)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toReviewResponse(rv), "review created", nil)
}
