package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/application"
	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	"github.com/oksasatya/restaurant-review-api/pkg/response"
)

const maxPhotoBytes = 5 << 20

type RestaurantHandler struct {
	Restaurants *application.RestaurantService
	Logger      logrus.FieldLogger
}

func NewRestaurantHandler(restaurants *application.RestaurantService, logger logrus.FieldLogger) *RestaurantHandler {
	return &RestaurantHandler{Restaurants: restaurants, Logger: logger}
}

type restaurantRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=50"`
	Description string `json:"description" binding:"required,max=350"`
	Country     string `json:"country" binding:"required,country"`
	PostalCode  string `json:"postal_code" binding:"required,max=10"`
	Address     string `json:"address" binding:"required,notblank,max=120"`
	Webpage     string `json:"webpage" binding:"omitempty,url,max=50"`
	PhoneNumber string `json:"phone_number" binding:"max=20"`
}

func (r restaurantRequest) input() application.RestaurantInput {
	return application.RestaurantInput{
		Name:        r.Name,
		Description: r.Description,
		Country:     r.Country,
		PostalCode:  r.PostalCode,
		Address:     r.Address,
		Webpage:     r.Webpage,
		PhoneNumber: r.PhoneNumber,
	}
}

type restaurantUpdateRequest struct {
	restaurantRequest
	Disabled  *bool    `json:"disabled"`
	AvgRating *float64 `json:"avg_rating" binding:"omitempty,min=0,max=5"`
}

type findURI struct {
	Country  string `uri:"country" binding:"required,country"`
	Postcode string `uri:"postcode" binding:"required,max=10"`
}

type findQuery struct {
	pageQuery
	Name string `form:"name" binding:"max=50"`
}

type searchQuery struct {
	pageQuery
	Q string `form:"q" binding:"required,notblank"`
}

// List GET /api/v1/restaurants
func (h *RestaurantHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	h.find(c, entity.RestaurantFilter{}, q)
}

// Find GET /api/v1/restaurants/:country/:postcode
func (h *RestaurantHandler) Find(c *gin.Context) {
	var uri findURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, err)
		return
	}
	var q findQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	h.find(c, entity.RestaurantFilter{Country: uri.Country, PostalCode: uri.Postcode, Name: q.Name}, q.pageQuery)
}

func (h *RestaurantHandler) find(c *gin.Context, f entity.RestaurantFilter, q pageQuery) {
	page, err := application.NewPage(q.Offset, q.Limit, application.DefaultPageSize)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	items, n, err := h.Restaurants.Find(c.Request.Context(), f, page.Offset, page.Limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRestaurantList(items), "ok", response.ListMeta{Count: n, Offset: page.Offset, Limit: page.Limit})
}

// Search GET /api/v1/restaurants/search
func (h *RestaurantHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := application.NewPage(q.Offset, q.Limit, application.DefaultPageSize)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	docs, n, err := h.Restaurants.SearchRestaurants(c.Request.Context(), q.Q, page.Offset, page.Limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, docs, "ok", response.ListMeta{Count: n, Offset: page.Offset, Limit: page.Limit})
}

// Create POST /api/v1/restaurant
func (h *RestaurantHandler) Create(c *gin.Context) {
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, err := h.Restaurants.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toRestaurantResponse(r), "restaurant created", nil)
}

// Get GET /api/v1/restaurant/:id
func (h *RestaurantHandler) Get(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, err)
		return
	}
	d, err := h.Restaurants.Detail(c.Request.Context(), uri.ID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRestaurantDetail(d), "ok", nil)
}

// Update PUT /api/v1/restaurant/:id
func (h *RestaurantHandler) Update(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, err)
		return
	}
	var req restaurantUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, err := h.Restaurants.Update(c.Request.Context(), uri.ID, req.input(), req.Disabled, req.AvgRating)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRestaurantResponse(r), "restaurant updated", nil)
}

// Delete DELETE /api/v1/restaurant/:id
func (h *RestaurantHandler) Delete(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Restaurants.Delete(c.Request.Context(), uri.ID); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto POST /api/v1/restaurant/:id/photo (multipart field "photo")
func (h *RestaurantHandler) UploadPhoto(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, err)
		return
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", gin.H{"photo": "is required"})
		return
	}
	if fh.Size > maxPhotoBytes {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", gin.H{"photo": "must be at most 5MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer f.Close()

	r, err := h.Restaurants.UploadPhoto(c.Request.Context(), uri.ID, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRestaurantResponse(r), "photo uploaded", nil)
}
