package dto

type CreateSettingsRequest struct {
	Name string `json:"name" validate:"required"`
}
