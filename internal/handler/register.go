package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/templui/smsgoals/internal/ctxkeys"
	"github.com/templui/smsgoals/internal/repository"
	"github.com/templui/smsgoals/internal/service"
	"github.com/templui/smsgoals/internal/ui"
	"github.com/templui/smsgoals/internal/ui/pages"
)

type RegisterHandler struct {
	userService *service.UserService
	appName     string
}

func NewRegisterHandler(userService *service.UserService, appName string) *RegisterHandler {
	return &RegisterHandler{
		userService: userService,
		appName:     appName,
	}
}

type registerRequest struct {
	PhoneNumber      string `json:"phone_number"`
	EmergencyContact string `json:"emergency_contact"`
}

func (h *RegisterHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.RegisterPage(pages.RegisterForm{
		AppName:   h.appName,
		CSRFToken: ctxkeys.CSRFToken(r.Context()),
	}))
}

// Register accepts the HTML form or a JSON body and answers in kind.
func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	isJSON := mediaType == "application/json"

	var req registerRequest
	if isJSON {
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		req.PhoneNumber = r.FormValue("phone_number")
		req.EmergencyContact = r.FormValue("emergency_contact")
	}

	user, err := h.userService.Register(r.Context(), req.PhoneNumber, req.EmergencyContact)
	status, msg := registerStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("registration failed", "error", err)
	}

	if isJSON {
		if err != nil {
			writeError(w, status, msg)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"phone_number":      user.PhoneNumber,
			"emergency_contact": user.EmergencyContact,
			"status":            "registered",
		})
		return
	}

	form := pages.RegisterForm{
		AppName:   h.appName,
		CSRFToken: ctxkeys.CSRFToken(r.Context()),
	}
	if err != nil {
		form.PhoneNumber = req.PhoneNumber
		form.EmergencyContact = req.EmergencyContact
		form.Error = msg
		ui.RenderStatus(w, r, status, pages.RegisterPage(form))
		return
	}
	form.Registered = true
	ui.RenderStatus(w, r, http.StatusCreated, pages.RegisterPage(form))
}

func registerStatus(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusCreated, ""
	case errors.Is(err, service.ErrMissingField):
		return http.StatusBadRequest, "Missing phone number or emergency contact"
	case errors.Is(err, service.ErrInvalidPhone):
		return http.StatusBadRequest, "Please enter phone numbers with a country code, e.g. +15551234567"
	case errors.Is(err, repository.ErrDuplicateUser):
		return http.StatusConflict, "This phone number is already registered."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again later."
	}
}
