package entity

import "time"

// User is one authorized sender. Users are created only by redeeming a
// code; the identity string is the Telegram account ID rendered as text,
// matching the key format of the users document.
type User struct {
	Identity   string    `json:"-"`
	Redeemed   string    `json:"redeemed" validate:"required"`
	RedeemedAt time.Time `json:"redeemed_at,omitempty"`
}
