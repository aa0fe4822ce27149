package entity

import "time"

// CheckReport is the tally of one upload submission.
type CheckReport struct {
	RunId    string    `json:"run_id" bson:"run_id"`
	Identity string    `json:"identity" bson:"identity"`
	Checked  int       `json:"checked" bson:"checked"`
	Valid    int       `json:"valid" bson:"valid"`
	At       time.Time `json:"at" bson:"at"`
}

func (r *CheckReport) Invalid() int {
	return r.Checked - r.Valid
}
