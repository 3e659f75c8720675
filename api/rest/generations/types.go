package generations

import (
	"codeberg.org/vyra/server/api/rest/pagination"
	"codeberg.org/vyra/server/vyra/generations"
)

// ListResponse wraps a page of the caller's generations
type ListResponse struct {
	Generations []generations.Record `json:"generations"`
	Pagination  pagination.Meta      `json:"pagination"`
}
