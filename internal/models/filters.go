package models

// SeriesFilter holds query parameters for paging through calibrated samples.
type SeriesFilter struct {
	StartUTC float64 `form:"startUTC"`
	EndUTC   float64 `form:"endUTC"`
	// MaxQC keeps samples whose total-water flag is <= MaxQC
	// (0 = valid only, 2 = everything).
	MaxQC    int `form:"maxQC"`
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// Normalize applies paging defaults and caps.
func (f *SeriesFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 1000
	}
	if f.PageSize > 10000 {
		f.PageSize = 10000
	}
}

// SeriesResponse is a paginated page of calibrated samples.
type SeriesResponse struct {
	Data       []CalSample `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
