package renderer

import (
	"github.com/etnz/codexi"
)

// Resume is the presentation of a codexi.Resume, with amounts already formatted.
type Resume struct {
	Rows       []ResumeRow `json:"rows"`
	Operations int         `json:"operations"`
	Balance    string      `json:"balance"`
}

// ResumeRow is one kind of operation in a Resume.
type ResumeRow struct {
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Latest string `json:"latest"`
}

// NewResume prepares r for rendering, formatting amounts in currency.
func NewResume(r codexi.Resume, currency string) *Resume {
	latest := func(day string) string {
		if day == codexi.NoDate {
			return "`" + day + "`"
		}
		return day
	}
	return &Resume{
		Rows: []ResumeRow{
			{"Transactions", r.Transactions, latest(r.LatestTransaction)},
			{"Initializations", r.Inits, latest(r.LatestInit)},
			{"Adjustments", r.Adjusts, latest(r.LatestAdjust)},
			{"Closings", r.Closes, latest(r.LatestClose)},
		},
		Operations: r.Operations,
		Balance:    FormatAmount(r.Balance, currency),
	}
}
