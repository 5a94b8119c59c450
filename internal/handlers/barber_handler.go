package handlers

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/dto"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	ucbarber "github.com/BruksfildServices01/barbershop-booking/internal/usecase/barber"
)

const maxAvatarBytes = 10 << 20

type BarberHandler struct {
	directory *ucbarber.Directory
	profile   *ucbarber.GetProfile
	promote   *ucbarber.Promote
	manage    *ucbarber.Manage
	avatar    *ucbarber.Avatar
}

func NewBarberHandler(
	directory *ucbarber.Directory,
	profile *ucbarber.GetProfile,
	promote *ucbarber.Promote,
	manage *ucbarber.Manage,
	avatar *ucbarber.Avatar,
) *BarberHandler {
	return &BarberHandler{directory: directory, profile: profile, promote: promote, manage: manage, avatar: avatar}
}

type PromoteBarberRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

type UpdateBarberRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

// --------------------------------------------------
// Public
// --------------------------------------------------

func (h *BarberHandler) List(c *gin.Context) {
	barbers, err := h.directory.List(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.FromBarbersWithRating(barbers))
}

func (h *BarberHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	details, err := h.directory.Details(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBarberDetails(*details))
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (h *BarberHandler) Promote(c *gin.Context) {
	var req PromoteBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.promote.Execute(c.Request.Context(), currentUser(c), req.UserID, req.FullName)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, gin.H{
		"id":        b.ID,
		"user_id":   b.UserID,
		"full_name": b.FullName,
	})
}

func (h *BarberHandler) AdminGet(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.manage.Get(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBarberProfile(*b))
}

func (h *BarberHandler) AdminUpdate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.manage.Rename(c.Request.Context(), currentUser(c), id, req.FullName)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBarberProfile(*b))
}

func (h *BarberHandler) AdminDelete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	removed, err := h.manage.Delete(c.Request.Context(), currentUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{
		"id":                    removed.Barber.ID,
		"upcoming_appointments": removed.Upcoming,
	})
}

func (h *BarberHandler) AdminUploadAvatar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	f, contentType, ok := avatarFile(c)
	if !ok {
		return
	}
	defer f.Close()

	b, err := h.avatar.UploadFor(c.Request.Context(), id, contentType, f)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"avatar_url": b.AvatarURL})
}

func (h *BarberHandler) AdminRemoveAvatar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.avatar.RemoveFor(c.Request.Context(), id); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}

// --------------------------------------------------
// Barber own profile
// --------------------------------------------------

func (h *BarberHandler) GetOwn(c *gin.Context) {
	b, err := h.profile.Execute(c.Request.Context(), currentUser(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBarberProfile(*b))
}

func (h *BarberHandler) UpdateOwn(c *gin.Context) {
	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ctx := c.Request.Context()
	me := currentUser(c)
	own, err := h.profile.Execute(ctx, me)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	b, err := h.manage.Rename(ctx, me, own.ID, req.FullName)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBarberProfile(*b))
}

// --------------------------------------------------
// Barber avatar
// --------------------------------------------------

func (h *BarberHandler) UploadAvatar(c *gin.Context) {
	f, contentType, ok := avatarFile(c)
	if !ok {
		return
	}
	defer f.Close()

	b, err := h.avatar.Upload(c.Request.Context(), currentUser(c), contentType, f)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"avatar_url": b.AvatarURL})
}

func (h *BarberHandler) RemoveAvatar(c *gin.Context) {
	if _, err := h.avatar.Remove(c.Request.Context(), currentUser(c)); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}

// avatarFile opens the multipart "file" field, writing the 400 itself when
// it is missing or too large.
func avatarFile(c *gin.Context) (multipart.File, string, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "file_required", "Multipart field \"file\" is required.")
		return nil, "", false
	}
	if fh.Size > maxAvatarBytes {
		httperr.BadRequest(c, "file_too_large", "Image must be at most 10MB.")
		return nil, "", false
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "file_unreadable", "Could not read the uploaded file.")
		return nil, "", false
	}
	return f, fh.Header.Get("Content-Type"), true
}
