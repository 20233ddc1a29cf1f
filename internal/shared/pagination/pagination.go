package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Request is a zero-based page request with an optional sort.
type Request struct {
	Page      int
	Size      int
	SortField string
	SortDesc  bool
}

func (r Request) Offset() int {
	return r.Page * r.Size
}

func (r Request) Limit() int {
	return r.Size
}

// Sort describes the default ordering and the fields a caller may sort by.
type Sort struct {
	Allowed      []string
	DefaultField string
	DefaultDesc  bool
}

// FromQuery reads page, size and sort=field,dir from the query string.
// Out-of-range values fall back to defaults; unknown sort fields are ignored.
func FromQuery(c *gin.Context, sort Sort) Request {
	req := Request{
		Page:      0,
		Size:      DefaultSize,
		SortField: sort.DefaultField,
		SortDesc:  sort.DefaultDesc,
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page >= 0 {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil && size > 0 {
		req.Size = size
	}
	if req.Size > MaxSize {
		req.Size = MaxSize
	}

	if raw := strings.TrimSpace(c.Query("sort")); raw != "" {
		field, dir, _ := strings.Cut(raw, ",")
		for _, allowed := range sort.Allowed {
			if field == allowed {
				req.SortField = field
				req.SortDesc = strings.EqualFold(strings.TrimSpace(dir), "desc")
				break
			}
		}
	}

	return req
}

// Page is the paginated payload returned by listing endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
