package models

import (
	"time"
)

// 审核状态
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// ImageSubmission 图片提交记录表
type ImageSubmission struct {
	BaseModel
	SubmissionID string    `gorm:"uniqueIndex;size:64;not null" json:"submission_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	PromptID     string    `gorm:"size:64;not null;index" json:"prompt_id"`
	ImageURL     string    `gorm:"size:1024;not null" json:"image_url"`
	SubmittedAt  time.Time `json:"submitted_at"`

	// 审核字段
	ModerationStatus string  `gorm:"size:20;default:'pending';index" json:"moderation_status"` // pending, approved, rejected
	ModerationScore  float64 `gorm:"default:0" json:"moderation_score"`
	ModerationFlags  JSONMap `gorm:"type:json" json:"moderation_flags"`
	IsAppropriate    *bool   `json:"is_appropriate,omitempty"`
	IsRelevant       *bool   `json:"is_relevant,omitempty"`
	IsHighQuality    *bool   `json:"is_high_quality,omitempty"`

	// 分析结果（完整的视觉分析JSON）
	Analysis JSONMap `gorm:"type:json" json:"analysis"`

	// 投票计数（只增不减）
	AuthenticVotes int `gorm:"default:0" json:"authentic_votes"`
	FakeVotes      int `gorm:"default:0" json:"fake_votes"`

	// 奖励快照
	RewardXP        int    `gorm:"default:0" json:"reward_xp"`
	RewardChips     int    `gorm:"default:0" json:"reward_chips"`
	RewardPartID    string `gorm:"size:64" json:"reward_part_id"`
	IsVerified      bool   `gorm:"default:false" json:"is_verified"`
	IsFirstTimeItem bool   `gorm:"default:false" json:"is_first_time_item"`
}

// UserVote 用户投票表（user_id + image_id 唯一约束防止重复投票）
type UserVote struct {
	BaseModel
	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_image" json:"user_id"`
	ImageID  string `gorm:"size:64;not null;uniqueIndex:idx_user_image;index" json:"image_id"`
	VoteType string `gorm:"size:20;not null" json:"vote_type"` // authentic, fake
}

// DiscoveredEntity 首次发现登记表（按识别实体名去重）
type DiscoveredEntity struct {
	BaseModel
	EntityName   string `gorm:"uniqueIndex;size:100;not null" json:"entity_name"`
	DiscoveredBy uint   `gorm:"not null" json:"discovered_by"`
	SubmissionID string `gorm:"size:64" json:"submission_id"`
}

// TableName 指定提交表名
func (ImageSubmission) TableName() string {
	return "image_submissions"
}

// TableName 指定投票表名
func (UserVote) TableName() string {
	return "user_votes"
}

// IsApproved 检查提交是否通过审核
func (s *ImageSubmission) IsApproved() bool {
	return s.ModerationStatus == ModerationApproved
}

// TotalVotes 获取总票数
func (s *ImageSubmission) TotalVotes() int {
	return s.AuthenticVotes + s.FakeVotes
}
