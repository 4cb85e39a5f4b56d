package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Page struct {
	Page     int
	PageSize int
}

func NewPage(page, size int) (Page, error) {
	if page < 1 {
		return Page{}, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, fmt.Errorf("%w: page_size must be in [1,%d]", ErrInvalidInput, MaxPageSize)
	}
	return Page{Page: page, PageSize: size}, nil
}

func (p Page) Offset() int { return (p.Page - 1) * p.PageSize }
func (p Page) Limit() int  { return p.PageSize }

// TotalPages ceil(total/size)
func (p Page) TotalPages(total int64) int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate 接受纯日期或 ISO 时间；时区信息丢弃，按 UTC 存
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrInvalidInput, s)
}
