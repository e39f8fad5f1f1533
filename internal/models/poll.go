package models

import "time"

/** --------------------ENTITIES-------------------- */

// Poll is a question put to a group with a fixed set of options.
// A poll exclusively owns its options; options own their votes.
type Poll struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	GroupID       uint         `gorm:"index;not null" json:"groupId"`
	Question      string       `gorm:"not null" json:"question"`
	Options       []PollOption `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"options"`
	AllowMultiple bool         `gorm:"not null;default:false" json:"allowMultiple"`
	Anonymous     bool         `gorm:"not null;default:false" json:"anonymous"`
	CreatedBy     uint         `gorm:"not null" json:"createdBy"`
	CreatorName   string       `json:"creatorName"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// TableName specifies the table name for Poll
func (Poll) TableName() string {
	return "polls"
}

// PollOption is a single answer of a poll.
type PollOption struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	PollID uint       `gorm:"index;not null" json:"pollId"`
	Text   string     `gorm:"not null" json:"text"`
	Votes  []PollVote `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE" json:"votes"`
}

// TableName specifies the table name for PollOption
func (PollOption) TableName() string {
	return "poll_options"
}

// PollVote records one user's vote for one option.
// Single-choice polls hold at most one vote per (poll, user);
// multi-choice polls hold at most one vote per (poll, user, option).
type PollVote struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	PollID   uint `gorm:"index;not null" json:"pollId"`
	OptionID uint `gorm:"index;not null" json:"optionId"`
	UserID   uint `gorm:"not null" json:"userId"`
}

// TableName specifies the table name for PollVote
func (PollVote) TableName() string {
	return "poll_votes"
}

/** -------------------- DTOs -------------------- */

// Request
type CreatePollRequest struct {
	GroupID       uint                `json:"groupId"`
	Question      string              `json:"question"`
	Options       []PollOptionRequest `json:"options"`
	AllowMultiple bool                `json:"allowMultiple"`
	Anonymous     bool                `json:"anonymous"`
	CreatorID     uint                `json:"creatorId"`
	CreatorName   string              `json:"creatorName"`
}

type PollOptionRequest struct {
	Text string `json:"text"`
}

type VoteRequest struct {
	PollID    uint   `json:"pollId"`
	GroupID   uint   `json:"groupId"`
	UserID    uint   `json:"userId"`
	OptionIDs []uint `json:"optionIds"`
}

// Response
// PollView is a fully materialized, read-only snapshot of a poll,
// including per-option voter lists and the recomputed total.
type PollView struct {
	ID            uint             `json:"id"`
	GroupID       uint             `json:"groupId"`
	Question      string           `json:"question"`
	Options       []PollOptionView `json:"options"`
	AllowMultiple bool             `json:"allowMultiple"`
	Anonymous     bool             `json:"anonymous"`
	CreatedBy     uint             `json:"createdBy"`
	CreatorName   string           `json:"creatorName"`
	CreatedAt     time.Time        `json:"createdAt"`
	TotalVotes    int              `json:"totalVotes"`
}

type PollOptionView struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Votes []uint `json:"votes"` // voter user ids, in cast order
}
