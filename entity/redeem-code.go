package entity

import "time"

// RedeemCode is a single-use access token. It exists only while
// outstanding: redemption removes it from the codes document entirely,
// so there is no status flag and no history of spent codes.
type RedeemCode struct {
	Code     string    `json:"-"`
	IssuedBy string    `json:"issued_by"`
	IssuedAt time.Time `json:"issued_at,omitempty"`
}
