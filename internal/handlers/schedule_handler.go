package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/dto"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
	ucbarber "github.com/BruksfildServices01/barbershop-booking/internal/usecase/barber"
	ucschedule "github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

// ScheduleHandler serves slot management for barbers (own slots) and
// admins (any barber).
type ScheduleHandler struct {
	profile *ucbarber.GetProfile
	create  *ucschedule.CreateSlot
	update  *ucschedule.UpdateSlot
	remove  *ucschedule.DeleteSlot
	list    *ucschedule.ListSlots
}

func NewScheduleHandler(
	profile *ucbarber.GetProfile,
	create *ucschedule.CreateSlot,
	update *ucschedule.UpdateSlot,
	remove *ucschedule.DeleteSlot,
	list *ucschedule.ListSlots,
) *ScheduleHandler {
	return &ScheduleHandler{
		profile: profile,
		create:  create,
		update:  update,
		remove:  remove,
		list:    list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateScheduleRequest struct {
	BarberID  uint   `json:"barber_id"` // admin only
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	IsActive  *bool  `json:"is_active"`
}

type UpdateScheduleRequest struct {
	BarberID  *uint   `json:"barber_id"` // admin only
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	IsActive  *bool   `json:"is_active"`
}

// ======================================================
// BARBER
// ======================================================

func (h *ScheduleHandler) CreateOwn(c *gin.Context) {
	barberID, ok := h.barberID(c)
	if !ok {
		return
	}
	h.doCreate(c, barberID)
}

func (h *ScheduleHandler) ListOwn(c *gin.Context) {
	barberID, ok := h.barberID(c)
	if !ok {
		return
	}
	upcoming, ok := boolQuery(c, "upcoming_only", false)
	if !ok {
		return
	}

	slots, err := h.list.Execute(c.Request.Context(), ucschedule.ListSlotsInput{
		BarberID:     &barberID,
		UpcomingOnly: upcoming,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.FromSchedules(slots))
}

func (h *ScheduleHandler) UpdateOwn(c *gin.Context) {
	barberID, ok := h.barberID(c)
	if !ok {
		return
	}
	h.doUpdate(c, ucschedule.AsBarber, barberID)
}

func (h *ScheduleHandler) DeleteOwn(c *gin.Context) {
	barberID, ok := h.barberID(c)
	if !ok {
		return
	}
	h.doDelete(c, ucschedule.AsBarber, barberID)
}

// ======================================================
// ADMIN
// ======================================================

func (h *ScheduleHandler) AdminCreate(c *gin.Context) {
	h.doCreate(c, 0)
}

func (h *ScheduleHandler) AdminList(c *gin.Context) {
	upcoming, ok := boolQuery(c, "upcoming_only", true)
	if !ok {
		return
	}
	barberID, ok := uintQuery(c, "barber_id")
	if !ok {
		return
	}
	start, ok := dateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end_date")
	if !ok {
		return
	}

	slots, err := h.list.Execute(c.Request.Context(), ucschedule.ListSlotsInput{
		BarberID:     barberID,
		StartDate:    start,
		EndDate:      end,
		UpcomingOnly: upcoming,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.FromSchedules(slots))
}

func (h *ScheduleHandler) AdminUpdate(c *gin.Context) {
	h.doUpdate(c, ucschedule.AsAdmin, 0)
}

func (h *ScheduleHandler) AdminDelete(c *gin.Context) {
	h.doDelete(c, ucschedule.AsAdmin, 0)
}

// ======================================================
// SHARED
// ======================================================

// doCreate uses ownerID when non-zero, otherwise the barber_id of the body.
func (h *ScheduleHandler) doCreate(c *gin.Context, ownerID uint) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	barberID := ownerID
	if barberID == 0 {
		if req.BarberID == 0 {
			httperr.BadRequest(c, "barber_id_required", "barber_id is required.")
			return
		}
		barberID = req.BarberID
	}

	date, ok := parseDate(c, req.Date)
	if !ok {
		return
	}
	start, ok := parseTime(c, req.StartTime)
	if !ok {
		return
	}
	end, ok := parseTime(c, req.EndTime)
	if !ok {
		return
	}

	slot, err := h.create.Execute(c.Request.Context(), ucschedule.CreateSlotInput{
		ActorID:  currentUser(c),
		BarberID: barberID,
		Date:     date,
		Start:    start,
		End:      end,
		IsActive: req.IsActive,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.FromSchedule(*slot))
}

func (h *ScheduleHandler) doUpdate(c *gin.Context, mode ucschedule.Mode, ownerID uint) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := ucschedule.UpdateSlotInput{
		ActorID:  currentUser(c),
		Mode:     mode,
		SlotID:   id,
		BarberID: ownerID,
		IsActive: req.IsActive,
	}
	if mode == ucschedule.AsAdmin {
		in.NewBarberID = req.BarberID
	}
	if req.Date != nil {
		d, ok := parseDate(c, *req.Date)
		if !ok {
			return
		}
		in.Date = &d
	}
	if in.Start, ok = optionalTime(c, req.StartTime); !ok {
		return
	}
	if in.End, ok = optionalTime(c, req.EndTime); !ok {
		return
	}

	slot, err := h.update.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromSchedule(*slot))
}

func (h *ScheduleHandler) doDelete(c *gin.Context, mode ucschedule.Mode, ownerID uint) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), ucschedule.DeleteSlotInput{
		ActorID:  currentUser(c),
		Mode:     mode,
		SlotID:   id,
		BarberID: ownerID,
	}); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}

func (h *ScheduleHandler) barberID(c *gin.Context) (uint, bool) {
	b, err := h.profile.Execute(c.Request.Context(), currentUser(c))
	if err != nil {
		httperr.FromError(c, err)
		return 0, false
	}
	return b.ID, true
}

func optionalTime(c *gin.Context, raw *string) (*timeutil.TimeOfDay, bool) {
	if raw == nil {
		return nil, true
	}
	t, ok := parseTime(c, *raw)
	if !ok {
		return nil, false
	}
	return &t, true
}
