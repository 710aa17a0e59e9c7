package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/focuslog/internal/db"
	"github.com/focuslog/internal/service"
	"github.com/gin-gonic/gin"
)

const contextUserKey = "__current_user"

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Register 处理账号注册
func (a *API) Register(c *gin.Context) {
	var payload credentialsPayload
	if !bindJSON(c, &payload, "请求格式错误") {
		return
	}

	user, err := a.users.Register(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusBadRequest, "邮箱已被注册")
			return
		}
		if errors.Is(err, service.ErrValidation) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "注册失败")
		return
	}

	c.JSON(http.StatusCreated, userToPayload(user))
}

// Login 校验凭证并签发访问令牌
func (a *API) Login(c *gin.Context) {
	var payload credentialsPayload
	if !bindJSON(c, &payload, "请求格式错误") {
		return
	}

	user, err := a.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			respondError(c, http.StatusUnauthorized, "邮箱或密码错误")
			return
		}
		respondError(c, http.StatusInternalServerError, "登录失败")
		return
	}

	token, err := a.tokens.Generate(user.ID, user.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "登录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me 返回当前登录用户
func (a *API) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}

// AuthRequired 校验 Bearer 令牌并在上下文中注入当前用户。
// 缺失或非法的凭证在触达存储前即以 401 结束请求。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, prefix) {
			respondError(c, http.StatusUnauthorized, "缺少访问令牌")
			c.Abort()
			return
		}

		claims, err := a.tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "访问令牌无效")
			c.Abort()
			return
		}

		user, err := a.users.Get(claims.UserID)
		if err != nil || !user.IsActive {
			respondError(c, http.StatusUnauthorized, "访问令牌无效")
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) (*db.User, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*db.User)
	return user, ok
}

func userToPayload(user *db.User) userPayload {
	return userPayload{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.IsActive,
		Points:    user.Points,
		CreatedAt: user.CreatedAt,
	}
}
