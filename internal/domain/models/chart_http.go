package models

// Requests for the chart HTTP endpoints. Defined in domain for consistency and reuse.

type ChartRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=16"`
	Start  string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
}

// Selection converts the validated request into a Selection. Empty start
// or end stays the zero Date, meaning that side of the range is open.
func (r ChartRequest) Selection() (Selection, error) {
	sel := Selection{Symbol: r.Symbol}
	if r.Start != "" {
		d, err := ParseDate(r.Start)
		if err != nil {
			return Selection{}, err
		}
		sel.Start = d
	}
	if r.End != "" {
		d, err := ParseDate(r.End)
		if err != nil {
			return Selection{}, err
		}
		sel.End = d
	}
	return sel, nil
}
