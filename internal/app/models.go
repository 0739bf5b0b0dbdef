package app

import "time"

type createTicketReq struct {
	CustomerPhone string  `json:"customer_phone" binding:"required"`
	BookingDate   string  `json:"booking_date,omitempty"` // RFC3339; defaults to now
	ServiceIDs    []int64 `json:"service_ids" binding:"required"`
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason,omitempty"`
}

type ticketLogResp struct {
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
