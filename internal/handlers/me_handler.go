package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barbershop-booking/internal/dto"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
)

type MeHandler struct {
	uow domain.UnitOfWork
}

func NewMeHandler(uow domain.UnitOfWork) *MeHandler {
	return &MeHandler{uow: uow}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.uow.Reader().Users().GetUser(c.Request.Context(), currentUser(c))
	if err != nil {
		httperr.FromError(c, httperr.Infra(err, "load user"))
		return
	}
	if user == nil {
		httperr.FromError(c, identity.ErrUserNotFound)
		return
	}

	httpresp.OK(c, dto.FromUser(*user))
}
