package dto

type LeadRequest struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type LeadResponse struct {
	Ref string `json:"ref"`
}
