package models

import "time"

/** --------------------ENTITIES-------------------- */

// ChatMessage is one entry in a group's append-only message log.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GroupID    uint      `gorm:"index;not null" json:"groupId"`
	SenderID   uint      `gorm:"not null" json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `gorm:"not null" json:"content"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
}

// TableName specifies the table name for ChatMessage
func (ChatMessage) TableName() string {
	return "chat_messages"
}

/** -------------------- DTOs -------------------- */

// Request
type SendMessageRequest struct {
	SenderID   uint   `json:"senderId"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
}
