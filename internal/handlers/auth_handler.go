package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/dto"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	ucidentity "github.com/BruksfildServices01/barbershop-booking/internal/usecase/identity"
)

type AuthHandler struct {
	register *ucidentity.Register
	login    *ucidentity.Login
}

func NewAuthHandler(register *ucidentity.Register, login *ucidentity.Login) *AuthHandler {
	return &AuthHandler{register: register, login: login}
}

// --------- Requests ---------

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, token, err := h.register.Execute(c.Request.Context(), ucidentity.RegisterInput{
		Username: req.Username,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.AuthDTO{User: dto.FromUser(*user), Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, token, err := h.login.Execute(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.AuthDTO{User: dto.FromUser(*user), Token: token})
}
