package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/expertlink/api/internal/application"
	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/pkg/response"
	"github.com/expertlink/api/pkg/validation"
)

type ChatHandler struct {
	Svc    *application.ChatService
	Logger *logrus.Logger
}

func NewChatHandler(svc *application.ChatService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{Svc: svc, Logger: logger}
}

type sendMessageRequest struct {
	Sender      string `json:"sender" binding:"required"`
	Recipient   string `json:"recipient" binding:"required"`
	Message     string `json:"message" binding:"required"`
	IsAnonymous bool   `json:"isAnonymous"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, err := h.Svc.Send(c.Request.Context(), application.SendMessageInput{
		Sender:      req.Sender,
		Recipient:   req.Recipient,
		Body:        req.Message,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, m)
}

func (h *ChatHandler) History(c *gin.Context) {
	msgs, err := h.Svc.History(c.Request.Context(), c.Param("user1"), c.Param("user2"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	if msgs == nil {
		msgs = []entity.Message{}
	}
	response.JSON(c, http.StatusOK, msgs)
}
