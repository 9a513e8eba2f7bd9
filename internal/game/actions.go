package game

// LevelGrowthFactor 升级后经验阈值的增长系数
const LevelGrowthFactor = 1.5

// Action 游戏状态转换动作
type Action interface {
	actionName() string
}

// SetActivePrompt 设置当前激活挑战（nil表示清除）
type SetActivePrompt struct {
	Prompt *PromptData
}

// AddImageSubmission 接受一次图片提交并发放奖励
type AddImageSubmission struct {
	Submission ImageSubmission
}

// VoteOnImage 对图片投票
type VoteOnImage struct {
	ImageID     string
	IsAuthentic bool
}

// AddRobotPart 向库存添加机器人部件
type AddRobotPart struct {
	Part RobotPart
}

// AssembleRobot 组装机器人
type AssembleRobot struct {
	Robot AssembledRobot
}

// SetCurrentRobot 设置当前机器人（找不到时置空）
type SetCurrentRobot struct {
	RobotID string
}

// UpdateQuestProgress 设置任务进度（绝对值）
type UpdateQuestProgress struct {
	QuestID  string
	Progress int
}

// AwardXP 发放经验（带循环升级判定）
type AwardXP struct {
	Amount int
}

// AwardChips 发放芯片
type AwardChips struct {
	Amount int
}

// CreditAccurateVote 记一次与社区共识一致的投票
type CreditAccurateVote struct {
	WasFake bool
}

// CreditQuestCompletion 记一次每日任务完成
type CreditQuestCompletion struct{}

func (SetActivePrompt) actionName() string     { return "SET_ACTIVE_PROMPT" }
func (AddImageSubmission) actionName() string  { return "ADD_IMAGE_SUBMISSION" }
func (VoteOnImage) actionName() string         { return "VOTE_ON_IMAGE" }
func (AddRobotPart) actionName() string        { return "ADD_ROBOT_PART" }
func (AssembleRobot) actionName() string       { return "ASSEMBLE_ROBOT" }
func (SetCurrentRobot) actionName() string     { return "SET_CURRENT_ROBOT" }
func (UpdateQuestProgress) actionName() string { return "UPDATE_QUEST_PROGRESS" }
func (AwardXP) actionName() string             { return "AWARD_XP" }
func (AwardChips) actionName() string          { return "AWARD_CHIPS" }
func (CreditAccurateVote) actionName() string  { return "CREDIT_ACCURATE_VOTE" }
func (CreditQuestCompletion) actionName() string {
	return "CREDIT_QUEST_COMPLETION"
}

// ActionName 返回动作名称
func ActionName(action Action) string {
	if action == nil {
		return "UNKNOWN"
	}
	return action.actionName()
}

// Apply 纯归约函数：对状态应用一个动作，返回新状态。
// 结构合法的输入永不panic；未知动作原样返回状态；
// 所有数值字段在每次转换后保持非负。
func Apply(state State, action Action) State {
	next := state.Clone()

	switch a := action.(type) {
	case SetActivePrompt:
		if a.Prompt != nil {
			prompt := *a.Prompt
			next.ActivePrompt = &prompt
		} else {
			next.ActivePrompt = nil
		}

	case AddImageSubmission:
		next.Inventory.Images = append(next.Inventory.Images, a.Submission.clone())
		next.Player.XP += a.Submission.Rewards.XP
		next.Player.Chips += a.Submission.Rewards.Chips
		next.Player.Stats.ImagesCollected++
		next.Player.Stats.PromptsCompleted++
		if a.Submission.IsFirstTimeItem {
			next.Player.Stats.FirstDiscoveries++
		}
		advanceQuests(next.Quests, QuestCollect)
		// 一次成功提交消耗一个激活挑战
		next.ActivePrompt = nil

	case VoteOnImage:
		for i := range next.Inventory.Images {
			if next.Inventory.Images[i].ID == a.ImageID {
				if a.IsAuthentic {
					next.Inventory.Images[i].VoteCount.Authentic++
				} else {
					next.Inventory.Images[i].VoteCount.Fake++
				}
				break
			}
		}
		next.Player.Stats.TotalVotes++
		advanceQuests(next.Quests, QuestVote)

	case AddRobotPart:
		next.Inventory.RobotParts = append(next.Inventory.RobotParts, a.Part)

	case AssembleRobot:
		robot := a.Robot.clone()
		next.Inventory.Robots = append(next.Inventory.Robots, robot)
		current := robot.clone()
		next.Player.CurrentRobot = &current
		next.Player.Stats.RobotsAssembled++

	case SetCurrentRobot:
		next.Player.CurrentRobot = nil
		for _, robot := range next.Inventory.Robots {
			if robot.ID == a.RobotID {
				selected := robot.clone()
				next.Player.CurrentRobot = &selected
				break
			}
		}

	case UpdateQuestProgress:
		progress := a.Progress
		if progress < 0 {
			progress = 0
		}
		for i := range next.Quests {
			if next.Quests[i].ID == a.QuestID {
				next.Quests[i].Progress = progress
				next.Quests[i].Completed = progress >= next.Quests[i].Goal
				break
			}
		}

	case AwardXP:
		if a.Amount > 0 {
			next.Player.XP += a.Amount
			// 循环判定：一次大额经验发放可能连升多级
			for next.Player.XPToNextLevel > 0 && next.Player.XP >= next.Player.XPToNextLevel {
				next.Player.Level++
				next.Player.XP -= next.Player.XPToNextLevel
				next.Player.XPToNextLevel = int(float64(next.Player.XPToNextLevel) * LevelGrowthFactor)
			}
		}

	case AwardChips:
		next.Player.Chips += a.Amount
		if next.Player.Chips < 0 {
			next.Player.Chips = 0
		}

	case CreditAccurateVote:
		next.Player.Stats.AccurateVotes++
		if a.WasFake {
			next.Player.Stats.FakesDetected++
		}

	case CreditQuestCompletion:
		next.Player.Stats.DailyQuestsCompleted++

	default:
		// 未知动作不改变状态
	}

	return next
}

// advanceQuests 将所有未完成的指定类型任务进度加1（封顶于目标值）
func advanceQuests(quests []DailyQuest, questType QuestType) {
	for i := range quests {
		if quests[i].Type == questType && !quests[i].Completed {
			quests[i].Progress++
			if quests[i].Progress > quests[i].Goal {
				quests[i].Progress = quests[i].Goal
			}
			quests[i].Completed = quests[i].Progress >= quests[i].Goal
		}
	}
}
