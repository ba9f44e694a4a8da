package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type DashboardRequest struct {
	UserID string `query:"user_id" json:"user_id" validate:"omitempty,max=256"`
	Start  string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
	Tab    string `query:"tab" json:"tab" default:"sleep" validate:"oneof=sleep steps heart glucose code"`
}

type MetricRequest struct {
	Kind  string `param:"kind" json:"kind" validate:"required,oneof=steps sleep heart glucose"`
	Start string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
}

type WindowBody struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

type AdjustWindowRequest struct {
	Previous WindowBody `json:"previous" validate:"required"`
	Proposed WindowBody `json:"proposed" validate:"required"`
}

type WindowResponse struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
}

type MetricResponse struct {
	Kind   string      `json:"kind"`
	Linked bool        `json:"linked"`
	Window WindowBody  `json:"window"`
	Result *LoadResult `json:"result"`
}
