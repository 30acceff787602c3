package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-crud/internal/application"
	"github.com/oksasatya/go-user-crud/internal/domain/repository"
	"github.com/oksasatya/go-user-crud/pkg/response"
	"github.com/oksasatya/go-user-crud/pkg/validation"
)

type UserHandler struct {
	Svc    userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age" binding:"required"`
}

// updateUserRequest fields are optional; omitted ones keep their stored value.
type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age"`
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.FindAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", map[string]any{"count": len(users)})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if u == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), req.Name, req.Email, *req.Age)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, userapp.UpdateUserInput{Name: req.Name, Email: req.Email, Age: req.Age})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if u == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user deleted", nil)
}

func (h *UserHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"id": "must be an integer"})
		return 0, false
	}
	return id, true
}

// fail maps service errors onto HTTP statuses.
func (h *UserHandler) fail(c *gin.Context, err error) {
	var (
		validationErr *userapp.ValidationError
		storageErr    *repository.StorageError
	)
	switch {
	case errors.As(err, &validationErr):
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", validation.ToDetails(validationErr))
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.As(err, &storageErr):
		h.Logger.WithError(storageErr.Err).WithFields(logrus.Fields{
			"op":         storageErr.Op,
			"request_id": c.GetString("request_id"),
		}).Error("database error")
		response.Error[any](c, http.StatusInternalServerError, "database error", nil)
	default:
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("unexpected error")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
