package api

import (
	"net/http"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/Giggibubbu/airpermit/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	ledger ledger.LedgerUseCase
}

func NewAccountHandler(ledger ledger.LedgerUseCase) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

func (h *AccountHandler) Register(router *gin.RouterGroup) {
	router.GET("/:email", h.get)
	router.POST("/:email/credit", h.charge)
}

func (h *AccountHandler) get(c *gin.Context) {
	email := c.Param("email")
	if callerRole(c) != roleAdmin && callerEmail(c) != email {
		writeError(c, domain.ErrForbiddenOwnership)
		return
	}

	account, err := h.ledger.GetAccount(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

type chargeRequest struct {
	Amount int `json:"amount"`
}

// charge is the admin top-up of a requester's prepaid credit.
func (h *AccountHandler) charge(c *gin.Context) {
	if callerRole(c) != roleAdmin {
		writeError(c, domain.ErrForbiddenOwnership)
		return
	}

	var req chargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	account, err := h.ledger.Credit(c.Request.Context(), c.Param("email"), req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}
