package models

// Quest 每日任务表（按用户发放）
type Quest struct {
	BaseModel
	QuestID     string `gorm:"size:64;not null;uniqueIndex:idx_user_quest" json:"quest_id"`
	UserID      uint   `gorm:"not null;uniqueIndex:idx_user_quest;index" json:"user_id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:255" json:"description"`
	Type        string `gorm:"size:20;not null" json:"type"` // collect, vote, assemble, walk
	Goal        int    `gorm:"not null" json:"goal"`
	Progress    int    `gorm:"default:0" json:"progress"`
	Completed   bool   `gorm:"default:false" json:"completed"`

	// 奖励
	RewardXP        int     `gorm:"default:0" json:"reward_xp"`
	RewardChips     int     `gorm:"default:0" json:"reward_chips"`
	RobotPartChance float64 `gorm:"default:0" json:"robot_part_chance"`
}

// Prompt 拍摄挑战目录表（只读目录，种子数据写入）
type Prompt struct {
	BaseModel
	PromptID   string `gorm:"uniqueIndex;size:64;not null" json:"prompt_id"`
	Text       string `gorm:"size:255;not null" json:"text"`
	Category   string `gorm:"size:50" json:"category"`
	Difficulty string `gorm:"size:20" json:"difficulty"` // easy, medium, hard
	Rarity     string `gorm:"size:20" json:"rarity"`     // common, uncommon, rare, epic, legendary
	Icon       string `gorm:"size:50" json:"icon"`
	Status     string `gorm:"size:20;default:'active'" json:"status"` // active, disabled

	// 奖励
	RewardXP        int     `gorm:"default:0" json:"reward_xp"`
	RewardChips     int     `gorm:"default:0" json:"reward_chips"`
	RobotPartChance float64 `gorm:"default:0" json:"robot_part_chance"`
}

// TableName 指定任务表名
func (Quest) TableName() string {
	return "quests"
}

// TableName 指定挑战表名
func (Prompt) TableName() string {
	return "prompts"
}

// IsDone 检查任务是否完成
func (q *Quest) IsDone() bool {
	return q.Progress >= q.Goal
}
