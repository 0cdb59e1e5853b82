package pagination

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params holds the page window requested by a list endpoint.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// New returns Params with out-of-range values replaced by defaults.
func New(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Offset is the number of rows to skip for this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit is the number of rows to fetch.
func (p Params) Limit() int {
	return p.PerPage
}

// Result wraps one page of rows with the totals a client needs to paginate.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult builds a Result. A nil slice is rendered as [].
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if params.PerPage > 0 {
		totalPages = (totalCount + params.PerPage - 1) / params.PerPage
	}
	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
