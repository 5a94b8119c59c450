package handlers

import (
	"github.com/gin-gonic/gin"

	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/dto"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	ucappointment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	ucbarber "github.com/BruksfildServices01/barbershop-booking/internal/usecase/barber"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book      *ucappointment.BookAppointment
	cancel    *ucappointment.CancelAppointment
	list      *ucappointment.ListAppointments
	directory *ucbarber.Directory
}

func NewAppointmentHandler(
	book *ucappointment.BookAppointment,
	cancel *ucappointment.CancelAppointment,
	list *ucappointment.ListAppointments,
	directory *ucbarber.Directory,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:      book,
		cancel:    cancel,
		list:      list,
		directory: directory,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	ScheduleID  uint   `json:"schedule_id" binding:"required"`
	BarberID    uint   `json:"barber_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
}

type AdminBookRequest struct {
	ScheduleID  uint   `json:"schedule_id" binding:"required"`
	BarberID    uint   `json:"barber_id"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
}

// ======================================================
// PUBLIC
// ======================================================

// Book accepts both logged-in clients and anonymous callers; the latter
// must give a name and phone.
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	booker := appt.Anonymous(req.ClientName, req.ClientPhone)
	if userID, ok := middleware.UserID(c); ok {
		booker = appt.Authenticated(userID)
	}

	ap, err := h.book.Execute(c.Request.Context(), ucappointment.BookInput{
		SlotID:   req.ScheduleID,
		BarberID: req.BarberID,
		Booker:   booker,
		ActorID:  booker.UserID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	barbers, err := h.directory.Available(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.FromAvailable(barbers))
}

// ======================================================
// CLIENT
// ======================================================

func (h *AppointmentHandler) My(c *gin.Context) {
	upcoming, ok := boolQuery(c, "upcoming_only", false)
	if !ok {
		return
	}

	userID := currentUser(c)
	list, err := h.list.Execute(c.Request.Context(), ucappointment.ListInput{
		ClientID:     &userID,
		UpcomingOnly: upcoming,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.FromAppointments(list))
}

// ======================================================
// ADMIN
// ======================================================

func (h *AppointmentHandler) AdminList(c *gin.Context) {
	upcoming, ok := boolQuery(c, "upcoming_only", true)
	if !ok {
		return
	}
	skip, ok := intQuery(c, "skip", 0, 0, 1<<30)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", ucappointment.DefaultLimit, 1, ucappointment.MaxLimit)
	if !ok {
		return
	}

	list, err := h.list.Execute(c.Request.Context(), ucappointment.ListInput{
		UpcomingOnly: upcoming,
		Skip:         skip,
		Limit:        limit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Page(c, dto.FromAppointments(list), skip, limit)
}

func (h *AppointmentHandler) AdminBook(c *gin.Context) {
	var req AdminBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	actor := currentUser(c)
	ap, err := h.book.Execute(c.Request.Context(), ucappointment.BookInput{
		SlotID:   req.ScheduleID,
		BarberID: req.BarberID,
		Booker:   appt.Anonymous(req.ClientName, req.ClientPhone),
		ByAdmin:  true,
		ActorID:  &actor,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) AdminCancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.cancel.Execute(c.Request.Context(), ucappointment.CancelInput{
		ActorID:       currentUser(c),
		AppointmentID: id,
	}); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}
