package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/dto"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	ucreview "github.com/BruksfildServices01/barbershop-booking/internal/usecase/review"
)

type ReviewHandler struct {
	create  *ucreview.CreateReview
	approve *ucreview.ApproveReview
	remove  *ucreview.DeleteReview
	list    *ucreview.ListReviews
}

func NewReviewHandler(
	create *ucreview.CreateReview,
	approve *ucreview.ApproveReview,
	remove *ucreview.DeleteReview,
	list *ucreview.ListReviews,
) *ReviewHandler {
	return &ReviewHandler{create: create, approve: approve, remove: remove, list: list}
}

type CreateReviewRequest struct {
	BarberID uint   `json:"barber_id" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment"`
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	r, err := h.create.Execute(c.Request.Context(), ucreview.CreateInput{
		ClientID: currentUser(c),
		BarberID: req.BarberID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.FromReview(*r))
}

func (h *ReviewHandler) My(c *gin.Context) {
	skip, limit, ok := page(c)
	if !ok {
		return
	}

	userID := currentUser(c)
	list, err := h.list.Execute(c.Request.Context(), ucreview.ListInput{
		ClientID: &userID,
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Page(c, dto.FromReviews(list), skip, limit)
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (h *ReviewHandler) AdminList(c *gin.Context) {
	onlyUnapproved, ok := boolQuery(c, "only_unapproved", false)
	if !ok {
		return
	}
	skip, limit, ok := page(c)
	if !ok {
		return
	}

	list, err := h.list.Execute(c.Request.Context(), ucreview.ListInput{
		OnlyUnapproved: onlyUnapproved,
		Skip:           skip,
		Limit:          limit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Page(c, dto.FromReviews(list), skip, limit)
}

func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	r, err := h.approve.Execute(c.Request.Context(), currentUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromReview(*r))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), currentUser(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}

func page(c *gin.Context) (skip, limit int, ok bool) {
	if skip, ok = intQuery(c, "skip", 0, 0, 1<<30); !ok {
		return 0, 0, false
	}
	if limit, ok = intQuery(c, "limit", 100, 1, 100); !ok {
		return 0, 0, false
	}
	return skip, limit, true
}
