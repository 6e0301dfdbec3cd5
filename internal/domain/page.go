package domain

import "strconv"

// PageInfo describes the window around an offset/limit page.
// Next is "" when there is no further page, Previous is -1 when there is no earlier one.
type PageInfo struct {
	Next     string `json:"next"`
	Limit    int    `json:"limit"`
	Previous int    `json:"previous"`
}

// NewPageInfo expects offset >= 0 and limit >= 1. The end of the window is compared
// as total-offset so huge limits cannot overflow.
func NewPageInfo(offset, limit, total int) PageInfo {
	p := PageInfo{Limit: limit, Previous: -1}
	if limit < total-offset {
		p.Next = strconv.Itoa(offset + limit)
	}
	if offset-limit >= 0 {
		p.Previous = offset - limit
	}
	return p
}
