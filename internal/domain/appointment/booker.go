package appointment

import (
	"strings"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// Booker identifies who is booking: an authenticated user, or an anonymous
// caller giving a name and phone.
type Booker struct {
	UserID *uint
	Name   string
	Phone  string
}

func Authenticated(userID uint) Booker {
	return Booker{UserID: &userID}
}

func Anonymous(name, phone string) Booker {
	return Booker{Name: name, Phone: phone}
}

func (b Booker) IsAuthenticated() bool {
	return b.UserID != nil
}

// Contact is the resolved identity written onto the appointment.
type Contact struct {
	ClientID *uint
	Name     string
	Phone    string
}

func ContactFromUser(u *models.User) Contact {
	id := u.ID
	return Contact{ClientID: &id, Name: u.Username, Phone: u.Phone}
}

// ContactFromDetails requires both fields to be non-blank.
func ContactFromDetails(name, phone string) (Contact, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return Contact{}, ErrContactRequired
	}
	return Contact{Name: name, Phone: phone}, nil
}
