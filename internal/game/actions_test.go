package game

import (
	"testing"
)

func testState() State {
	player := NewPlayerProfile("player-001", "TechExplorer", 100, 1000)
	quests := []DailyQuest{
		{
			ID:          "quest-001",
			Title:       "Image Collector",
			Description: "Collect 3 images of any type",
			Type:        QuestCollect,
			Goal:        3,
			Progress:    2,
			Rewards:     QuestRewards{XP: 150, Chips: 10, RobotPartChance: 0.2},
		},
		{
			ID:          "quest-002",
			Title:       "Deepfake Detective",
			Description: "Vote on 5 images for authenticity",
			Type:        QuestVote,
			Goal:        5,
			Progress:    3,
			Rewards:     QuestRewards{XP: 100, Chips: 8, RobotPartChance: 0.1},
		},
	}
	return NewState(player, quests)
}

func testPrompt() *PromptData {
	return &PromptData{
		ID:         "prompt-001",
		Text:       "Take a photo of an energy drink",
		Category:   "product",
		Difficulty: "easy",
		Rarity:     RarityCommon,
		Rewards:    PromptRewards{XP: 100, Chips: 5, RobotPartChance: 0.1},
	}
}

func testSubmission(rewards SubmissionRewards) ImageSubmission {
	return ImageSubmission{
		ID:               "img-001",
		PromptID:         "prompt-001",
		ImageURL:         "/placeholder.svg",
		ModerationStatus: ModerationApproved,
		VoteCount:        VoteCount{},
		Rewards:          rewards,
		IsVerified:       true,
	}
}

func TestApply_SetActivePrompt(t *testing.T) {
	state := testState()
	prompt := testPrompt()

	next := Apply(state, SetActivePrompt{Prompt: prompt})
	if next.ActivePrompt == nil || next.ActivePrompt.ID != "prompt-001" {
		t.Fatalf("激活挑战未设置: %+v", next.ActivePrompt)
	}

	// 幂等性：相同挑战重复设置结果一致
	again := Apply(next, SetActivePrompt{Prompt: prompt})
	if again.ActivePrompt == nil || *again.ActivePrompt != *next.ActivePrompt {
		t.Error("重复设置相同挑战应产生相同状态")
	}

	// 设置nil清除
	cleared := Apply(next, SetActivePrompt{Prompt: nil})
	if cleared.ActivePrompt != nil {
		t.Error("设置nil应清除激活挑战")
	}
}

func TestApply_AddImageSubmission(t *testing.T) {
	state := testState()
	state = Apply(state, SetActivePrompt{Prompt: testPrompt()})

	next := Apply(state, AddImageSubmission{
		Submission: testSubmission(SubmissionRewards{XP: 100, Chips: 5}),
	})

	if got := len(next.Inventory.Images); got != 1 {
		t.Errorf("图片数量 = %d, 期望 1", got)
	}
	if next.Player.XP != 100 {
		t.Errorf("XP = %d, 期望 100", next.Player.XP)
	}
	if next.Player.Chips != 105 {
		t.Errorf("Chips = %d, 期望 105", next.Player.Chips)
	}
	if next.Player.Stats.ImagesCollected != 1 || next.Player.Stats.PromptsCompleted != 1 {
		t.Errorf("统计未更新: %+v", next.Player.Stats)
	}
	if next.ActivePrompt != nil {
		t.Error("提交后应清除激活挑战")
	}

	// collect任务进度推进并完成
	quest := next.Quests[0]
	if quest.Progress != 3 || !quest.Completed {
		t.Errorf("collect任务 progress=%d completed=%v, 期望 3/true", quest.Progress, quest.Completed)
	}

	// 已完成的任务不再推进
	after := Apply(next, AddImageSubmission{
		Submission: testSubmission(SubmissionRewards{XP: 100, Chips: 5}),
	})
	if after.Quests[0].Progress != 3 {
		t.Errorf("已完成任务进度 = %d, 不应超过目标 3", after.Quests[0].Progress)
	}
}

func TestApply_VoteOnImage(t *testing.T) {
	state := testState()
	state = Apply(state, AddImageSubmission{
		Submission: testSubmission(SubmissionRewards{}),
	})

	next := Apply(state, VoteOnImage{ImageID: "img-001", IsAuthentic: true})
	if next.Inventory.Images[0].VoteCount.Authentic != 1 {
		t.Errorf("authentic票数 = %d, 期望 1", next.Inventory.Images[0].VoteCount.Authentic)
	}

	next = Apply(next, VoteOnImage{ImageID: "img-001", IsAuthentic: false})
	if next.Inventory.Images[0].VoteCount.Fake != 1 {
		t.Errorf("fake票数 = %d, 期望 1", next.Inventory.Images[0].VoteCount.Fake)
	}
	if next.Player.Stats.TotalVotes != 2 {
		t.Errorf("totalVotes = %d, 期望 2", next.Player.Stats.TotalVotes)
	}

	// vote任务进度推进
	if next.Quests[1].Progress != 5 || !next.Quests[1].Completed {
		t.Errorf("vote任务 progress=%d completed=%v, 期望 5/true", next.Quests[1].Progress, next.Quests[1].Completed)
	}

	// 不存在的图片ID不改变计票
	before := next.Inventory.Images[0].VoteCount
	missing := Apply(next, VoteOnImage{ImageID: "no-such-image", IsAuthentic: true})
	if missing.Inventory.Images[0].VoteCount != before {
		t.Error("对不存在图片投票不应改变已有计票")
	}
}

func TestApply_RobotLifecycle(t *testing.T) {
	state := testState()

	part := RobotPart{
		ID:     "part-001",
		Type:   PartHead,
		Name:   "Quantum Processor",
		Rarity: RarityRare,
		Stats:  PartStats{Power: 10, Intelligence: 30},
	}
	state = Apply(state, AddRobotPart{Part: part})
	if len(state.Inventory.RobotParts) != 1 {
		t.Fatalf("部件数量 = %d, 期望 1", len(state.Inventory.RobotParts))
	}

	robot := AssembledRobot{
		ID:    "robot-001",
		Name:  "Sentinel X1",
		Parts: map[PartType]RobotPart{PartHead: part},
	}
	robot.TotalStats = SumPartStats(robot.Parts)

	state = Apply(state, AssembleRobot{Robot: robot})
	if len(state.Inventory.Robots) != 1 {
		t.Fatalf("机器人数量 = %d, 期望 1", len(state.Inventory.Robots))
	}
	if state.Player.CurrentRobot == nil || state.Player.CurrentRobot.ID != "robot-001" {
		t.Error("组装后应设置当前机器人")
	}
	if state.Player.Stats.RobotsAssembled != 1 {
		t.Errorf("robotsAssembled = %d, 期望 1", state.Player.Stats.RobotsAssembled)
	}
	if state.Player.CurrentRobot.TotalStats.Power != 10 || state.Player.CurrentRobot.TotalStats.Intelligence != 30 {
		t.Errorf("合计属性错误: %+v", state.Player.CurrentRobot.TotalStats)
	}

	// 往返：组装后按ID设置当前机器人得到同一机器人
	state = Apply(state, SetCurrentRobot{RobotID: "robot-001"})
	if state.Player.CurrentRobot == nil || state.Player.CurrentRobot.ID != "robot-001" {
		t.Error("按ID设置当前机器人失败")
	}

	// 不存在的ID置空
	state = Apply(state, SetCurrentRobot{RobotID: "no-such-robot"})
	if state.Player.CurrentRobot != nil {
		t.Error("不存在的机器人ID应将当前机器人置空")
	}
}

func TestApply_UpdateQuestProgress(t *testing.T) {
	state := testState()

	next := Apply(state, UpdateQuestProgress{QuestID: "quest-002", Progress: 5})
	if next.Quests[1].Progress != 5 || !next.Quests[1].Completed {
		t.Errorf("任务 progress=%d completed=%v, 期望 5/true", next.Quests[1].Progress, next.Quests[1].Completed)
	}

	// 回退进度同步重算completed
	next = Apply(next, UpdateQuestProgress{QuestID: "quest-002", Progress: 1})
	if next.Quests[1].Progress != 1 || next.Quests[1].Completed {
		t.Errorf("任务 progress=%d completed=%v, 期望 1/false", next.Quests[1].Progress, next.Quests[1].Completed)
	}

	// 负进度钳制为0
	next = Apply(next, UpdateQuestProgress{QuestID: "quest-002", Progress: -3})
	if next.Quests[1].Progress != 0 {
		t.Errorf("负进度应钳制为0, 实际 %d", next.Quests[1].Progress)
	}
}

func TestApply_AwardXPLeveling(t *testing.T) {
	tests := []struct {
		name          string
		award         int
		wantLevel     int
		wantXP        int
		wantThreshold int
	}{
		{
			name:          "不足升级",
			award:         500,
			wantLevel:     1,
			wantXP:        500,
			wantThreshold: 1000,
		},
		{
			name:          "恰好升一级",
			award:         1000,
			wantLevel:     2,
			wantXP:        0,
			wantThreshold: 1500,
		},
		{
			name:          "大额经验连升两级",
			award:         2500, // 1000 + 1500，两次阈值恰好耗尽
			wantLevel:     3,
			wantXP:        0,
			wantThreshold: 2250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := testState()
			next := Apply(state, AwardXP{Amount: tt.award})
			if next.Player.Level != tt.wantLevel {
				t.Errorf("level = %d, 期望 %d", next.Player.Level, tt.wantLevel)
			}
			if next.Player.XP != tt.wantXP {
				t.Errorf("xp = %d, 期望 %d", next.Player.XP, tt.wantXP)
			}
			if next.Player.XPToNextLevel != tt.wantThreshold {
				t.Errorf("xpToNextLevel = %d, 期望 %d", next.Player.XPToNextLevel, tt.wantThreshold)
			}
		})
	}
}

func TestApply_AwardChips(t *testing.T) {
	state := testState()

	next := Apply(state, AwardChips{Amount: 50})
	if next.Player.Chips != 150 {
		t.Errorf("chips = %d, 期望 150", next.Player.Chips)
	}

	// 扣除超过余额时钳制为0
	next = Apply(next, AwardChips{Amount: -500})
	if next.Player.Chips != 0 {
		t.Errorf("chips = %d, 期望 0（不允许负值）", next.Player.Chips)
	}
}

func TestApply_UnknownActionIsNoop(t *testing.T) {
	state := testState()
	next := Apply(state, nil)
	if next.Player != state.Player || len(next.Quests) != len(state.Quests) {
		t.Error("未知动作应原样返回状态")
	}
}

func TestApply_NonNegativeInvariant(t *testing.T) {
	state := testState()

	actions := []Action{
		SetActivePrompt{Prompt: testPrompt()},
		AddImageSubmission{Submission: testSubmission(SubmissionRewards{XP: 100, Chips: 5})},
		VoteOnImage{ImageID: "img-001", IsAuthentic: true},
		AwardXP{Amount: 3000},
		AwardChips{Amount: -99999},
		UpdateQuestProgress{QuestID: "quest-001", Progress: -1},
	}

	for _, action := range actions {
		state = Apply(state, action)

		if state.Player.XP < 0 || state.Player.Chips < 0 || state.Player.Level < 1 {
			t.Fatalf("玩家数值出现负值: %+v", state.Player)
		}
		for _, quest := range state.Quests {
			if quest.Progress < 0 {
				t.Fatalf("任务进度出现负值: %+v", quest)
			}
			if quest.Completed != (quest.Progress >= quest.Goal) {
				t.Fatalf("任务完成标记与进度不一致: %+v", quest)
			}
		}
		for _, img := range state.Inventory.Images {
			if img.VoteCount.Authentic < 0 || img.VoteCount.Fake < 0 {
				t.Fatalf("计票出现负值: %+v", img.VoteCount)
			}
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	state := testState()
	state = Apply(state, AddImageSubmission{Submission: testSubmission(SubmissionRewards{XP: 10})})

	snapshot := state.Clone()
	_ = Apply(state, VoteOnImage{ImageID: "img-001", IsAuthentic: true})

	if state.Inventory.Images[0].VoteCount != snapshot.Inventory.Images[0].VoteCount {
		t.Error("Apply不应修改输入状态")
	}
	if state.Player.Stats.TotalVotes != snapshot.Player.Stats.TotalVotes {
		t.Error("Apply不应修改输入状态的统计")
	}
}
