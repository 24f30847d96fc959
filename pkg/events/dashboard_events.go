package events

import "time"

// Document events.
const (
	TypeCharacterSaved  = "CHARACTER_SAVED"
	TypeSettingsSaved   = "SETTINGS_SAVED"
	TypeSettingsCreated = "SETTINGS_CREATED"
)

// Chat session events. Appended fires on the optimistic user append; Resolved,
// Failed and Canceled describe how the pending message settled.
const (
	TypeChatMessageAppended = "CHAT_MESSAGE_APPENDED"
	TypeChatMessageResolved = "CHAT_MESSAGE_RESOLVED"
	TypeChatMessageFailed   = "CHAT_MESSAGE_FAILED"
	TypeChatMessageCanceled = "CHAT_MESSAGE_CANCELED"
	TypeChatCleared         = "CHAT_CLEARED"
)

func NewDocumentEvent(eventType, pathName string) Event {
	return BaseEvent{
		Type:       eventType,
		Data:       map[string]interface{}{"path_name": pathName},
		OccurredAt: time.Now(),
	}
}

func NewChatEvent(eventType, pathName string, data map[string]interface{}) Event {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["path_name"] = pathName
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
