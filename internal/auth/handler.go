package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/middleware"
)

// Handler exposes authentication endpoints
type Handler struct {
	service *Service
}

// NewHandler creates the auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes wires the unauthenticated auth endpoints
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes wires the endpoints that require a token
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/auth/me", h.Me)
}

// RegisterRequest is the account creation payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Register creates a new account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}
	common.CreatedResponse(c, user)
}

// LoginRequest is the credential payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and account
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// Login verifies credentials and returns a bearer token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me returns the authenticated account
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, 401, "unauthorized")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, user)
}
