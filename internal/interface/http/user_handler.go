package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/expertlink/api/internal/application"
	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/pkg/response"
	"github.com/expertlink/api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AccountService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Name             string `json:"name" binding:"required"`
	Picture          string `json:"picture"`
	PhoneNumber      string `json:"phoneNumber"`
	AreasOfExpertise string `json:"areasOfExpertise"`
	AreasOfInterest  string `json:"areasOfInterest"`
	Availability     string `json:"availability"`
	ExperienceLevel  string `json:"experienceLevel"`
	Bio              string `json:"bio"`
	Location         string `json:"location"`
	LinkedInProfile  string `json:"linkedInProfile"`
	Gender           string `json:"gender"`
	Age              int    `json:"age" binding:"omitempty,gte=0"`
}

type updateProfileRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Tier string `json:"tier"` // accepted for wire compatibility, ignored
	Bio  string `json:"bio"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:            req.Email,
		Name:             req.Name,
		Picture:          req.Picture,
		PhoneNumber:      req.PhoneNumber,
		AreasOfExpertise: req.AreasOfExpertise,
		AreasOfInterest:  req.AreasOfInterest,
		Availability:     req.Availability,
		ExperienceLevel:  req.ExperienceLevel,
		Bio:              req.Bio,
		Location:         req.Location,
		LinkedInProfile:  req.LinkedInProfile,
		Gender:           req.Gender,
		Age:              req.Age,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, a)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	a, err := h.Svc.GetByEmail(c.Param("email"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, a)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	a, err := h.Svc.GetByID(c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, a)
}

func (h *UserHandler) List(c *gin.Context) {
	accounts, err := h.Svc.List()
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, accounts)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.UpdateProfile(c.Request.Context(), c.Param("email"), application.UpdateProfileInput{
		Name: req.Name,
		Role: req.Role,
		Bio:  req.Bio,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, a)
}

func (h *UserHandler) UploadPicture(c *gin.Context) {
	fh, err := c.FormFile("picture")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "picture file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadPicture(c.Request.Context(), c.Param("email"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"picture": url})
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "q is required")
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, hits)
}

func (h *UserHandler) Leaderboard(c *gin.Context) {
	entries, err := h.Svc.Leaderboard(c.Request.Context(), c.DefaultQuery("filter", "all-time"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	if entries == nil {
		entries = []*entity.LeaderboardEntry{}
	}
	response.JSON(c, http.StatusOK, entries)
}
