package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-timezone/internal/application"
	"github.com/oksasatya/go-user-timezone/pkg/helpers"
	"github.com/oksasatya/go-user-timezone/pkg/response"
	"github.com/oksasatya/go-user-timezone/pkg/utz"
	"github.com/oksasatya/go-user-timezone/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone" binding:"omitempty,user_tz"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateTimezoneRequest struct {
	Timezone string `json:"timezone" binding:"required,user_tz"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		resp.Send(c)
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name, req.Timezone)
	if err != nil {
		status := http.StatusBadRequest
		if err == application.ErrEmailTaken {
			status = http.StatusConflict
		}
		resp := response.Error[any](c, status, "failed to register", err.Error())
		resp.Send(c)
		return
	}
	resp := response.Success(c, http.StatusCreated, gin.H{
		"id":       u.ID,
		"email":    u.Email,
		"name":     u.Name,
		"timezone": u.Timezone,
	}, "registered", nil)
	resp.Send(c)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		resp.Send(c)
		return
	}

	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		resp := response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		resp.Send(c)
		return
	}
	h.Cookies.SetAccess(c, token, exp)
	resp := response.Success(c, http.StatusOK, gin.H{
		"id":       u.ID,
		"email":    u.Email,
		"name":     u.Name,
		"timezone": u.Timezone,
	}, "login successful", map[string]any{"access_expires_at": exp})
	resp.Send(c)
}

func (h *UserHandler) Logout(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		helpers.LogError(h.Logger, "logout failed", err, logrus.Fields{"user_id": uid})
	}
	h.Cookies.Clear(c)
	resp := response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
	resp.Send(c)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.Get(c.Request.Context(), uid)
	if err != nil {
		resp := response.Error[any](c, http.StatusNotFound, "user not found", nil)
		resp.Send(c)
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"timezone":   u.Timezone,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}, "profile", nil)
	resp.Send(c)
}

func (h *UserHandler) UpdateTimezone(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateTimezoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		resp.Send(c)
		return
	}
	u, err := h.Svc.UpdateTimezone(c.Request.Context(), uid, req.Timezone)
	if err != nil {
		status := http.StatusBadRequest
		if utz.IsValidation(err) {
			status = http.StatusUnprocessableEntity
		}
		resp := response.Error[any](c, status, "failed to update timezone", err.Error())
		resp.Send(c)
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{
		"id":       u.ID,
		"timezone": u.Timezone,
	}, "timezone updated", nil)
	resp.Send(c)
}
