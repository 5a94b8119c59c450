package dto

import (
	"github.com/jinzhu/copier"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type UserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func FromUser(m models.User) UserDTO {
	var out UserDTO
	_ = copier.Copy(&out, &m)
	return out
}

type AuthDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}
