package models

// Coupon is admin-owned and read-only at checkout. Codes are stored
// upper-cased and matched case-insensitively.
type Coupon struct {
	Code     string `json:"code" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=percentage fixed"`
	Value    int    `json:"value" binding:"required,gt=0"`
	MinOrder int    `json:"minOrder" binding:"gte=0"`
	Active   bool   `json:"active"`
}
