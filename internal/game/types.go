package game

import (
	"time"
)

// Rarity 稀有度等级
type Rarity string

const (
	RarityCommon    Rarity = "common"    // 普通
	RarityUncommon  Rarity = "uncommon"  // 少见
	RarityRare      Rarity = "rare"      // 稀有
	RarityEpic      Rarity = "epic"      // 史诗
	RarityLegendary Rarity = "legendary" // 传说
)

// rarityOrder 稀有度排序表
var rarityOrder = map[Rarity]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
}

// Less 比较稀有度
func (r Rarity) Less(other Rarity) bool {
	return rarityOrder[r] < rarityOrder[other]
}

// PartType 机器人部件类型
type PartType string

const (
	PartHead      PartType = "head"      // 头部
	PartTorso     PartType = "torso"     // 躯干
	PartArms      PartType = "arms"      // 手臂
	PartLegs      PartType = "legs"      // 腿部
	PartAccessory PartType = "accessory" // 配件
)

// QuestType 任务类型
type QuestType string

const (
	QuestCollect  QuestType = "collect"  // 收集图片
	QuestVote     QuestType = "vote"     // 投票鉴别
	QuestAssemble QuestType = "assemble" // 组装机器人
	QuestWalk     QuestType = "walk"     // 步行
)

// PromptRewards 挑战奖励
type PromptRewards struct {
	XP              int     `json:"xp"`
	Chips           int     `json:"chips"`
	RobotPartChance float64 `json:"robotPartChance"` // 部件掉落概率 [0,1]
}

// PromptData 拍摄挑战（目录项，创建后不可变）
type PromptData struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	Category   string        `json:"category"`
	Difficulty string        `json:"difficulty"`
	Rarity     Rarity        `json:"rarity"`
	Rewards    PromptRewards `json:"rewards"`
	Icon       string        `json:"icon,omitempty"`
}

// PlayerStats 玩家统计
type PlayerStats struct {
	ImagesCollected      int `json:"imagesCollected"`
	PromptsCompleted     int `json:"promptsCompleted"`
	RobotsAssembled      int `json:"robotsAssembled"`
	AccurateVotes        int `json:"accurateVotes"`
	TotalVotes           int `json:"totalVotes"`
	DailyQuestsCompleted int `json:"dailyQuestsCompleted"`
	FakesDetected        int `json:"fakesDetected"`
	StrikesReceived      int `json:"strikesReceived"`
	FirstDiscoveries     int `json:"firstDiscoveries"`
}

// PlayerProfile 玩家档案
type PlayerProfile struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	Level         int             `json:"level"`
	XP            int             `json:"xp"`
	XPToNextLevel int             `json:"xpToNextLevel"`
	Chips         int             `json:"chips"`
	Stats         PlayerStats     `json:"stats"`
	CurrentRobot  *AssembledRobot `json:"currentRobot"`
}

// PartStats 部件属性
type PartStats struct {
	Power        int `json:"power,omitempty"`
	Agility      int `json:"agility,omitempty"`
	Intelligence int `json:"intelligence,omitempty"`
}

// RobotPart 机器人部件（授予后不可变）
type RobotPart struct {
	ID       string    `json:"id"`
	Type     PartType  `json:"type"`
	Name     string    `json:"name"`
	Rarity   Rarity    `json:"rarity"`
	ImageURL string    `json:"imageUrl"`
	Stats    PartStats `json:"stats"`
}

// AssembledRobot 组装机器人（组装后不可变，重组产生新机器人）
type AssembledRobot struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Parts      map[PartType]RobotPart `json:"parts"`
	Timestamp  time.Time              `json:"timestamp"`
	TotalStats PartStats              `json:"totalStats"`
}

// SumPartStats 按轴求和各部件属性
func SumPartStats(parts map[PartType]RobotPart) PartStats {
	var total PartStats
	for _, part := range parts {
		total.Power += part.Stats.Power
		total.Agility += part.Stats.Agility
		total.Intelligence += part.Stats.Intelligence
	}
	return total
}

// VoteCount 投票计数
type VoteCount struct {
	Authentic int `json:"authentic"`
	Fake      int `json:"fake"`
}

// SubmissionRewards 提交奖励快照
type SubmissionRewards struct {
	XP        int        `json:"xp"`
	Chips     int        `json:"chips"`
	RobotPart *RobotPart `json:"robotPart,omitempty"`
}

// BoundingBox 检测框
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DetectedObject 检测到的物体
type DetectedObject struct {
	Name        string       `json:"name"`
	Confidence  float64      `json:"confidence"`
	BoundingBox *BoundingBox `json:"boundingBox,omitempty"`
}

// DetectedAnimal 检测到的动物
type DetectedAnimal struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Analysis 计算机视觉分析结果（每次评估调用产生一次，之后不可变）
type Analysis struct {
	Objects         []DetectedObject `json:"objects"`
	Text            []string         `json:"text"`
	Faces           int              `json:"faces"`
	Animals         []DetectedAnimal `json:"animals"`
	MatchConfidence float64          `json:"matchConfidence"` // [0, 0.98]
}

// 审核状态
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// ImageSubmission 图片提交记录
type ImageSubmission struct {
	ID               string                 `json:"id"`
	PromptID         string                 `json:"promptId"`
	ImageURL         string                 `json:"imageUrl"`
	Timestamp        time.Time              `json:"timestamp"`
	ModerationStatus string                 `json:"moderationStatus"`
	ModerationFlags  map[string]interface{} `json:"moderationFlags,omitempty"`
	ModerationScore  float64                `json:"moderationScore,omitempty"`
	IsAppropriate    *bool                  `json:"isAppropriate,omitempty"`
	IsRelevant       *bool                  `json:"isRelevant,omitempty"`
	IsHighQuality    *bool                  `json:"isHighQuality,omitempty"`
	Analysis         *Analysis              `json:"analysis"`
	VoteCount        VoteCount              `json:"voteCount"`
	Rewards          SubmissionRewards      `json:"rewards"`
	IsVerified       bool                   `json:"isVerified"`
	IsFirstTimeItem  bool                   `json:"isFirstTimeItem,omitempty"`
}

// QuestRewards 任务奖励
type QuestRewards struct {
	XP              int     `json:"xp"`
	Chips           int     `json:"chips"`
	RobotPartChance float64 `json:"robotPartChance"`
}

// DailyQuest 每日任务
type DailyQuest struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        QuestType    `json:"type"`
	Goal        int          `json:"goal"`
	Progress    int          `json:"progress"`
	Rewards     QuestRewards `json:"rewards"`
	Completed   bool         `json:"completed"` // 不变式: Completed == (Progress >= Goal)
}

// Inventory 玩家库存
type Inventory struct {
	Images     []ImageSubmission `json:"images"`
	RobotParts []RobotPart       `json:"robotParts"`
	Robots     []AssembledRobot  `json:"robots"`
}

// State 游戏状态聚合根（引擎独占持有，消费者只读快照）
type State struct {
	Player       PlayerProfile `json:"player"`
	Inventory    Inventory     `json:"inventory"`
	Quests       []DailyQuest  `json:"quests"`
	ActivePrompt *PromptData   `json:"activePrompt"`
}

// Clone 深拷贝游戏状态
func (s State) Clone() State {
	cloned := s

	if s.Player.CurrentRobot != nil {
		robot := s.Player.CurrentRobot.clone()
		cloned.Player.CurrentRobot = &robot
	}

	cloned.Inventory.Images = make([]ImageSubmission, len(s.Inventory.Images))
	for i, img := range s.Inventory.Images {
		cloned.Inventory.Images[i] = img.clone()
	}

	cloned.Inventory.RobotParts = make([]RobotPart, len(s.Inventory.RobotParts))
	copy(cloned.Inventory.RobotParts, s.Inventory.RobotParts)

	cloned.Inventory.Robots = make([]AssembledRobot, len(s.Inventory.Robots))
	for i, robot := range s.Inventory.Robots {
		cloned.Inventory.Robots[i] = robot.clone()
	}

	cloned.Quests = make([]DailyQuest, len(s.Quests))
	copy(cloned.Quests, s.Quests)

	if s.ActivePrompt != nil {
		prompt := *s.ActivePrompt
		cloned.ActivePrompt = &prompt
	}

	return cloned
}

// clone 深拷贝机器人
func (r AssembledRobot) clone() AssembledRobot {
	cloned := r
	cloned.Parts = make(map[PartType]RobotPart, len(r.Parts))
	for partType, part := range r.Parts {
		cloned.Parts[partType] = part
	}
	return cloned
}

// clone 深拷贝提交记录
func (s ImageSubmission) clone() ImageSubmission {
	cloned := s

	if s.ModerationFlags != nil {
		cloned.ModerationFlags = make(map[string]interface{}, len(s.ModerationFlags))
		for k, v := range s.ModerationFlags {
			cloned.ModerationFlags[k] = v
		}
	}

	if s.Analysis != nil {
		analysis := *s.Analysis
		analysis.Objects = make([]DetectedObject, len(s.Analysis.Objects))
		copy(analysis.Objects, s.Analysis.Objects)
		analysis.Text = make([]string, len(s.Analysis.Text))
		copy(analysis.Text, s.Analysis.Text)
		analysis.Animals = make([]DetectedAnimal, len(s.Analysis.Animals))
		copy(analysis.Animals, s.Analysis.Animals)
		cloned.Analysis = &analysis
	}

	if s.IsAppropriate != nil {
		v := *s.IsAppropriate
		cloned.IsAppropriate = &v
	}
	if s.IsRelevant != nil {
		v := *s.IsRelevant
		cloned.IsRelevant = &v
	}
	if s.IsHighQuality != nil {
		v := *s.IsHighQuality
		cloned.IsHighQuality = &v
	}

	if s.Rewards.RobotPart != nil {
		part := *s.Rewards.RobotPart
		cloned.Rewards.RobotPart = &part
	}

	return cloned
}

// NewPlayerProfile 创建初始玩家档案
func NewPlayerProfile(id, username string, initialChips, xpToNextLevel int) PlayerProfile {
	return PlayerProfile{
		ID:            id,
		Username:      username,
		Level:         1,
		XP:            0,
		XPToNextLevel: xpToNextLevel,
		Chips:         initialChips,
	}
}

// NewState 创建初始游戏状态
func NewState(player PlayerProfile, quests []DailyQuest) State {
	return State{
		Player: player,
		Inventory: Inventory{
			Images:     []ImageSubmission{},
			RobotParts: []RobotPart{},
			Robots:     []AssembledRobot{},
		},
		Quests:       quests,
		ActivePrompt: nil,
	}
}
