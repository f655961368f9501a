package refund

import "hotelbooking/internal/pkg/money"

type RequestRefundRequest struct {
	AmountRequested money.Amount `json:"amountRequested" binding:"required"`
	Reason          string       `json:"reason" binding:"required"`
}
