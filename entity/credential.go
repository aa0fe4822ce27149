package entity

import "cookiegate/lib/validate"

// Credential is one parsed cookie line from an uploaded file. It is never
// persisted in structured form; when the checker confirms it, the raw line
// is appended to the results file as-is.
type Credential struct {
	NetflixId       string `json:"netflix_id" validate:"required"`
	SecureNetflixId string `json:"secure_netflix_id" validate:"required"`
	Raw             string `json:"-"`
}

func (c *Credential) Validate() error {
	return validate.Struct(c)
}
