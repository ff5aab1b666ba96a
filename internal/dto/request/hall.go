package request

type HallRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Rows        int    `json:"rows" validate:"required,min=1,max=100"`
	SeatsPerRow int    `json:"seats_per_row" validate:"required,min=1,max=100"`
}

type HallUpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Rows        *int    `json:"rows,omitempty" validate:"omitempty,min=1,max=100"`
	SeatsPerRow *int    `json:"seats_per_row,omitempty" validate:"omitempty,min=1,max=100"`
}
