package request

type CartRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type ClaimSeatRequest struct {
	ScreeningID string `json:"screening_id" validate:"required,uuid"`
	Row         int    `json:"row" validate:"required,min=1"`
	Seat        int    `json:"seat" validate:"required,min=1"`
}
