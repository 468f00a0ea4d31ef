package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/NomadCrew/portfolio-backend/errors"
	"github.com/NomadCrew/portfolio-backend/internal/session"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/NomadCrew/portfolio-backend/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContactHandler struct {
	contactService ContactServiceInterface
	sessions       FormSessionStore
	log            *zap.SugaredLogger
}

func NewContactHandler(contactService ContactServiceInterface, sessions FormSessionStore) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		sessions:       sessions,
		log:            logger.GetLogger(),
	}
}

type viewport bool

func (v viewport) IsVisible() bool { return bool(v) }

// ValidateFieldHandler validates a single field value.
// @Summary Validate a contact form field
// @Description Runs the same check the form applies when a field loses focus
// @Tags contact
// @Accept json
// @Produce json
// @Param request body types.ValidateFieldRequest true "Field and value"
// @Success 200 {object} types.ValidateFieldResponse
// @Failure 400 {object} types.ErrorResponse "Unknown field"
// @Router /v1/contact/validate [post]
func (h *ContactHandler) ValidateFieldHandler(c *gin.Context) {
	var req types.ValidateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	resp, err := h.contactService.ValidateField(req.Field, req.Value)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Unknown field", err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitHandler validates and delivers a complete message in one call.
// @Summary Submit a contact message
// @Description Validates all fields and delivers the message to the site owner
// @Tags contact
// @Accept json
// @Produce json
// @Param request body types.SubmitContactRequest true "Contact message"
// @Success 200 {object} types.ContactFormResponse "Message delivered"
// @Failure 409 {object} types.ContactFormResponse "A message from this sender is already being delivered"
// @Failure 422 {object} types.ContactFormResponse "Validation failed"
// @Failure 429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure 502 {object} types.ContactFormResponse "Delivery failed"
// @Router /v1/contact [post]
func (h *ContactHandler) SubmitHandler(c *gin.Context) {
	var req types.SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	state, err := h.contactService.SubmitOnce(submitContext(c), req.FormData())
	h.respondSubmit(c, "", state, err)
}

// CreateFormHandler starts an interactive form session.
// @Summary Create a contact form session
// @Tags contact
// @Produce json
// @Success 201 {object} types.ContactFormResponse
// @Failure 429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure 503 {object} types.ErrorResponse "Too many open sessions"
// @Router /v1/contact/forms [post]
func (h *ContactHandler) CreateFormHandler(c *gin.Context) {
	id, form, expires, err := h.sessions.Create()
	if err != nil {
		if errors.Is(err, session.ErrFull) {
			c.Header("Retry-After", "60")
			_ = c.Error(apperrors.Unavailable("Too many open contact forms, please try again later", err))
		} else {
			_ = c.Error(err)
		}
		return
	}
	resp := types.NewContactFormResponse(id, form.State())
	resp.ExpiresAt = &expires
	c.JSON(http.StatusCreated, resp)
}

// GetFormHandler returns the current state of a form session.
// @Summary Get a contact form session
// @Tags contact
// @Produce json
// @Param id path string true "Form session ID"
// @Success 200 {object} types.ContactFormResponse
// @Failure 404 {object} types.ErrorResponse "Session not found or expired"
// @Router /v1/contact/forms/{id} [get]
func (h *ContactHandler) GetFormHandler(c *gin.Context) {
	id := c.Param("id")
	form, expires, ok := h.lookup(c, id)
	if !ok {
		return
	}
	h.respondState(c, id, form.State(), expires)
}

// ChangeFieldHandler stores a new value for a field.
// @Summary Change a contact form field
// @Tags contact
// @Accept json
// @Produce json
// @Param id path string true "Form session ID"
// @Param field path string true "Field" Enums(name, email, subject, message)
// @Param request body types.ChangeFieldRequest true "New value"
// @Success 200 {object} types.ContactFormResponse
// @Failure 400 {object} types.ErrorResponse "Unknown field"
// @Failure 404 {object} types.ErrorResponse "Session not found or expired"
// @Router /v1/contact/forms/{id}/fields/{field} [put]
func (h *ContactHandler) ChangeFieldHandler(c *gin.Context) {
	var req types.ChangeFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	field, ok := parseFieldParam(c)
	if !ok {
		return
	}
	id := c.Param("id")
	form, expires, ok := h.lookup(c, id)
	if !ok {
		return
	}

	state, err := form.Change(field, req.Value)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Unknown field", err.Error()))
		return
	}
	h.respondState(c, id, state, expires)
}

// BlurFieldHandler marks a field as touched and validates it.
// @Summary Blur a contact form field
// @Tags contact
// @Produce json
// @Param id path string true "Form session ID"
// @Param field path string true "Field" Enums(name, email, subject, message)
// @Success 200 {object} types.ContactFormResponse
// @Failure 400 {object} types.ErrorResponse "Unknown field"
// @Failure 404 {object} types.ErrorResponse "Session not found or expired"
// @Router /v1/contact/forms/{id}/fields/{field}/blur [post]
func (h *ContactHandler) BlurFieldHandler(c *gin.Context) {
	field, ok := parseFieldParam(c)
	if !ok {
		return
	}
	id := c.Param("id")
	form, expires, ok := h.lookup(c, id)
	if !ok {
		return
	}

	state, err := form.Blur(field)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Unknown field", err.Error()))
		return
	}
	h.respondState(c, id, state, expires)
}

// RevealHandler records that the form has scrolled into view.
// @Summary Report contact form visibility
// @Tags contact
// @Accept json
// @Produce json
// @Param id path string true "Form session ID"
// @Param request body types.RevealRequest true "Visibility"
// @Success 200 {object} types.ContactFormResponse
// @Failure 404 {object} types.ErrorResponse "Session not found or expired"
// @Router /v1/contact/forms/{id}/reveal [post]
func (h *ContactHandler) RevealHandler(c *gin.Context) {
	var req types.RevealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	id := c.Param("id")
	form, expires, ok := h.lookup(c, id)
	if !ok {
		return
	}
	h.respondState(c, id, form.Reveal(viewport(req.Visible)), expires)
}

// SubmitFormHandler submits a form session.
// @Summary Submit a contact form session
// @Tags contact
// @Produce json
// @Param id path string true "Form session ID"
// @Success 200 {object} types.ContactFormResponse "Message delivered"
// @Failure 404 {object} types.ErrorResponse "Session not found or expired"
// @Failure 409 {object} types.ContactFormResponse "Submission already in progress"
// @Failure 422 {object} types.ContactFormResponse "Validation failed"
// @Failure 429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure 502 {object} types.ContactFormResponse "Delivery failed"
// @Router /v1/contact/forms/{id}/submit [post]
func (h *ContactHandler) SubmitFormHandler(c *gin.Context) {
	id := c.Param("id")
	form, _, ok := h.lookup(c, id)
	if !ok {
		return
	}

	state, err := form.Submit(submitContext(c))
	h.respondSubmit(c, id, state, err)
}

func (h *ContactHandler) lookup(c *gin.Context, id string) (*contact.Form, time.Time, bool) {
	form, expires, err := h.sessions.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			_ = c.Error(apperrors.NotFound("Contact form", id))
		} else {
			_ = c.Error(err)
		}
		return nil, time.Time{}, false
	}
	return form, expires, true
}

func (h *ContactHandler) respondState(c *gin.Context, id string, state contact.State, expires time.Time) {
	resp := types.NewContactFormResponse(id, state)
	if !expires.IsZero() {
		resp.ExpiresAt = &expires
	}
	c.JSON(http.StatusOK, resp)
}

// respondSubmit always answers with the form state so clients can render the
// status message. The error middleware skips written responses, so failures
// are logged here.
func (h *ContactHandler) respondSubmit(c *gin.Context, id string, state contact.State, err error) {
	status := http.StatusOK
	switch {
	case err == nil:
		h.log.Infow("Contact message submitted",
			"session_id", id,
			"request_id", contact.RequestIDFrom(c.Request.Context()))
	case errors.Is(err, contact.ErrValidationFailed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, contact.ErrSubmitInProgress):
		status = http.StatusConflict
	case errors.Is(err, contact.ErrDeliveryFailed):
		status = http.StatusBadGateway
		h.logSubmitError(c, id, status, "Contact message could not be delivered", err)
	default:
		status = http.StatusInternalServerError
		h.logSubmitError(c, id, status, "Contact submission failed", err)
	}
	c.JSON(status, types.NewContactFormResponse(id, state))
}

func (h *ContactHandler) logSubmitError(c *gin.Context, id string, status int, message string, err error) {
	h.log.Errorw(message,
		"error", err,
		"status_code", status,
		"session_id", id,
		"request_id", contact.RequestIDFrom(c.Request.Context()),
		"path", c.Request.URL.Path)
}

// submitContext detaches the delivery from the client connection so a
// disconnect cannot interrupt a message that is already being sent.
func submitContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func parseFieldParam(c *gin.Context) (contact.Field, bool) {
	field, err := contact.ParseField(c.Param("field"))
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Unknown field", err.Error()))
		return 0, false
	}
	return field, true
}
