package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/expertlink/api/internal/application"
	"github.com/expertlink/api/pkg/response"
	"github.com/expertlink/api/pkg/validation"
)

type CoinHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewCoinHandler(svc *application.AccountService, logger *logrus.Logger) *CoinHandler {
	return &CoinHandler{Svc: svc, Logger: logger}
}

type sendCoinsRequest struct {
	SenderEmail    string `json:"senderEmail" binding:"required,email"`
	RecipientEmail string `json:"recipientEmail" binding:"required,email"`
	Amount         int    `json:"amount" binding:"required,gt=0"`
}

// SendCoins moves coins between two accounts and returns both updated
// records, tiers recomputed.
func (h *CoinHandler) SendCoins(c *gin.Context) {
	var req sendCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sender, recipient, err := h.Svc.Transfer(c.Request.Context(), req.SenderEmail, req.RecipientEmail, req.Amount)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"sender": sender, "recipient": recipient})
}
