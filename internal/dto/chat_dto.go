package dto

import "agent-dashboard-be/internal/entity"

type SendChatRequest struct {
	PathName string `json:"path_name" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type SendChatResponse struct {
	Success bool `json:"success"`
}

type CancelChatRequest struct {
	PathName string `json:"path_name" validate:"required"`
}

type ClearChatRequest struct {
	PathName string `json:"path_name" validate:"required"`
}

type ChatMessagesResponse struct {
	PathName   string                `json:"path_name"`
	Messages   []*entity.ChatMessage `json:"messages"`
	InProgress bool                  `json:"in_progress"`
}
