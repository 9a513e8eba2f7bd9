package game

import "github.com/google/uuid"

// FirstDiscoveryChipsBonus 首次发现的芯片加成
const FirstDiscoveryChipsBonus = 50

// RollPartReward 按挑战的掉落概率掷骰，命中时从玩家现有库存中
// 均匀随机抽取一个部件作为奖励快照。
// 注意：这会奖励一个已拥有部件的副本而不是扩充收藏，
// 属于待产品确认的存疑行为，未经确认不做改动。
func RollPartReward(gen RandomGenerator, chance float64, inventory []RobotPart) *RobotPart {
	if len(inventory) == 0 {
		return nil
	}
	if gen.Next() >= chance {
		return nil
	}
	part := inventory[gen.NextInt(0, len(inventory))]
	return &part
}

// BuildSubmissionRewards 根据挑战与掷骰结果组装提交奖励快照。
// firstDiscovery为真时附加固定芯片加成（并入奖励快照，不单独发放）。
func BuildSubmissionRewards(prompt *PromptData, part *RobotPart, firstDiscovery bool) SubmissionRewards {
	rewards := SubmissionRewards{
		XP:        prompt.Rewards.XP,
		Chips:     prompt.Rewards.Chips,
		RobotPart: part,
	}
	if firstDiscovery {
		rewards.Chips += FirstDiscoveryChipsBonus
	}
	return rewards
}

// NewDiscoveryPart 首次发现奖励的特殊固定稀有度部件
func NewDiscoveryPart(entityName string) RobotPart {
	name := "Discovery Beacon"
	if entityName != "" {
		name = "Discovery Beacon: " + entityName
	}
	return RobotPart{
		ID:       uuid.New().String(),
		Type:     PartAccessory,
		Name:     name,
		Rarity:   RarityRare,
		ImageURL: "/placeholder.svg",
		Stats: PartStats{
			Power:        5,
			Intelligence: 20,
		},
	}
}
