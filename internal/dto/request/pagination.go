package request

import "movie-social/pkg/utils"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	// MaxPage keeps the offset of the largest page within utils.MaxOffset.
	MaxPage = utils.MaxOffset/MaxPerPage + 1
)

type PaginatedRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"limit"`
}

// Normalize fills in page 1 and defaultLimit for unset values and caps the page and its size.
func (p PaginatedRequest) Normalize(defaultLimit int) PaginatedRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	p.PerPage = utils.ClampLimit(p.PerPage, defaultLimit, MaxPerPage)
	return p
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	return utils.ClampLimit(p.PerPage, DefaultPerPage, MaxPerPage)
}
