package dto

import "agent-dashboard-be/internal/entity"

type SelectDocumentRequest struct {
	PathName string `json:"path_name" validate:"required"`
}

// GenCharacterFieldRequest is forwarded verbatim to the agent's field
// generator; character_data is the profile being edited in the dashboard.
type GenCharacterFieldRequest struct {
	CharacterData entity.Document `json:"character_data"`
	Prompt        string          `json:"prompt" validate:"required"`
	Field         string          `json:"field" validate:"required"`
	KeepCurrent   bool            `json:"keep_current"`
	NumFields     int             `json:"num_fields"`
}
