package handler

import (
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Signup(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, user)
}

// Signin POST /auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req service.SigninRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.svc.Signin(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, session)
}

// Session GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.svc.Current(c.Request.Context(), GetUserID(c))
	if err != nil {
		// token outlived its user
		Unauthorized(c, "세션이 유효하지 않습니다")
		return
	}
	Success(c, user)
}

// UserHandler 사용자 관리 (관리자)
type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	users, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, users, total, q)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}
