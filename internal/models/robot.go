package models

import (
	"time"
)

// RobotPart 机器人部件库存表
type RobotPart struct {
	BaseModel
	PartID       string `gorm:"size:64;not null;index" json:"part_id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Type         string `gorm:"size:20;not null" json:"type"` // head, torso, arms, legs, accessory
	Name         string `gorm:"size:100;not null" json:"name"`
	Rarity       string `gorm:"size:20;not null" json:"rarity"` // common, uncommon, rare, epic, legendary
	ImageURL     string `gorm:"size:255" json:"image_url"`
	Power        int    `gorm:"default:0" json:"power"`
	Agility      int    `gorm:"default:0" json:"agility"`
	Intelligence int    `gorm:"default:0" json:"intelligence"`
}

// Robot 组装机器人表（部件快照以JSON存储，组装后不可变）
type Robot struct {
	BaseModel
	RobotID     string    `gorm:"uniqueIndex;size:64;not null" json:"robot_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Parts       JSONMap   `gorm:"type:json" json:"parts"`
	AssembledAt time.Time `json:"assembled_at"`

	// 合计属性（各部件按轴求和）
	TotalPower        int `gorm:"default:0" json:"total_power"`
	TotalAgility      int `gorm:"default:0" json:"total_agility"`
	TotalIntelligence int `gorm:"default:0" json:"total_intelligence"`
}

// TableName 指定部件表名
func (RobotPart) TableName() string {
	return "robot_parts"
}

// TableName 指定机器人表名
func (Robot) TableName() string {
	return "robots"
}
