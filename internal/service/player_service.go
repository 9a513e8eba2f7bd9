package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	apperrors "github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/SphoenixAI/image-verse-quest/internal/game"
	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/SphoenixAI/image-verse-quest/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// playerService 玩家状态服务实现。
// 同时实现game.StatePersister：引擎快照写回数据库，
// 会话恢复时从数据库重建完整游戏状态。
type playerService struct {
	repos    *repository.Manager
	sessions *game.SessionManager
	params   *GameParams
	log      *zap.Logger
}

// GameParams 游戏数值参数
type GameParams struct {
	InitialChips    int
	InitialXPToNext int
	VerifyThreshold int
	AccurateVoteXP  int
}

// DefaultGameParams 默认数值参数
func DefaultGameParams() *GameParams {
	return &GameParams{
		InitialChips:    100,
		InitialXPToNext: 1000,
		VerifyThreshold: 10,
		AccurateVoteXP:  10,
	}
}

// NewPlayerService 创建玩家状态服务
func NewPlayerService(repos *repository.Manager, params *GameParams, log *zap.Logger) *playerService {
	if params == nil {
		params = DefaultGameParams()
	}
	return &playerService{
		repos:  repos,
		params: params,
		log:    log,
	}
}

// BindSessionManager 绑定会话管理器（构造后注入，解决相互引用）
func (s *playerService) BindSessionManager(sm *game.SessionManager) {
	s.sessions = sm
}

// sessionKey 用户的引擎会话键
func sessionKey(userID uint) string {
	return "player-" + strconv.FormatUint(uint64(userID), 10)
}

// Session 获取（或恢复）用户的引擎会话
func (s *playerService) Session(ctx context.Context, userID uint) (*game.Session, error) {
	fallback, err := s.freshState(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.sessions.RecoverOrCreateSession(ctx, sessionKey(userID), userID, *fallback)
}

// GetState 获取玩家当前完整游戏状态快照
func (s *playerService) GetState(ctx context.Context, userID uint) (*game.State, error) {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	state := session.Engine.Snapshot()
	return &state, nil
}

// SetActivePrompt 设置当前激活的拍摄挑战
func (s *playerService) SetActivePrompt(ctx context.Context, userID uint, promptID string) (*game.PromptData, error) {
	prompt, err := s.repos.Prompt().FindByPromptID(ctx, promptID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrNotFound)
	}

	session, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := promptToGame(prompt)
	session.Engine.Dispatch(game.SetActivePrompt{Prompt: data})
	return data, nil
}

// ClearActivePrompt 清除当前挑战
func (s *playerService) ClearActivePrompt(ctx context.Context, userID uint) error {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return err
	}
	session.Engine.Dispatch(game.SetActivePrompt{Prompt: nil})
	return nil
}

// RandomPrompt 从目录随机抽取一个挑战
func (s *playerService) RandomPrompt(ctx context.Context) (*game.PromptData, error) {
	prompts, err := s.repos.Prompt().FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, apperrors.New(apperrors.ErrNotFound)
	}

	catalog := make([]game.PromptData, 0, len(prompts))
	for _, p := range prompts {
		catalog = append(catalog, *promptToGame(p))
	}

	gen := game.NewCryptoRandomGenerator()
	return &catalog[gen.NextInt(0, len(catalog))], nil
}

// ListPrompts 列出启用的挑战目录
func (s *playerService) ListPrompts(ctx context.Context) ([]*game.PromptData, error) {
	prompts, err := s.repos.Prompt().FindActive(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*game.PromptData, 0, len(prompts))
	for _, p := range prompts {
		result = append(result, promptToGame(p))
	}
	return result, nil
}

// AwardXP 发放经验（引擎内触发升级结算）
func (s *playerService) AwardXP(ctx context.Context, userID uint, amount int) (*game.State, error) {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	state := session.Engine.Dispatch(game.AwardXP{Amount: amount})
	if err := s.Save(ctx, userID, &state); err != nil {
		s.log.Error("保存玩家状态失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return &state, nil
}

// AwardChips 发放芯片
func (s *playerService) AwardChips(ctx context.Context, userID uint, amount int) (*game.State, error) {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	state := session.Engine.Dispatch(game.AwardChips{Amount: amount})
	if err := s.Save(ctx, userID, &state); err != nil {
		s.log.Error("保存玩家状态失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return &state, nil
}

// Leaderboard 按等级排行
func (s *playerService) Leaderboard(ctx context.Context, limit int) ([]*models.PlayerState, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.repos.PlayerState().TopByLevel(ctx, limit)
}

// Save 实现game.StatePersister：把引擎快照写回数据库。
// 档案计数与任务进度落库；部件、机器人、提交记录由各自
// 服务在授予时写入，这里不重复。
func (s *playerService) Save(ctx context.Context, userID uint, state *game.State) error {
	row := &models.PlayerState{
		UserID:               userID,
		Level:                state.Player.Level,
		XP:                   state.Player.XP,
		XPToNextLevel:        state.Player.XPToNextLevel,
		Chips:                state.Player.Chips,
		ImagesCollected:      state.Player.Stats.ImagesCollected,
		PromptsCompleted:     state.Player.Stats.PromptsCompleted,
		RobotsAssembled:      state.Player.Stats.RobotsAssembled,
		AccurateVotes:        state.Player.Stats.AccurateVotes,
		TotalVotes:           state.Player.Stats.TotalVotes,
		DailyQuestsCompleted: state.Player.Stats.DailyQuestsCompleted,
		FakesDetected:        state.Player.Stats.FakesDetected,
		StrikesReceived:      state.Player.Stats.StrikesReceived,
		FirstDiscoveries:     state.Player.Stats.FirstDiscoveries,
	}
	if state.Player.CurrentRobot != nil {
		row.CurrentRobotID = state.Player.CurrentRobot.ID
	}
	if err := s.repos.PlayerState().Upsert(ctx, row); err != nil {
		return fmt.Errorf("保存玩家进度失败: %w", err)
	}

	// 任务进度同步
	for _, quest := range state.Quests {
		if err := s.repos.Quest().UpdateProgress(ctx, userID, quest.ID, quest.Progress, quest.Completed); err != nil {
			s.log.Warn("同步任务进度失败",
				zap.Uint("user_id", userID),
				zap.String("quest_id", quest.ID),
				zap.Error(err))
		}
	}

	return nil
}

// Load 实现game.StatePersister：从数据库重建完整游戏状态
func (s *playerService) Load(ctx context.Context, userID uint) (*game.State, error) {
	row, err := s.repos.PlayerState().FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("读取玩家进度失败: %w", err)
	}

	user, err := s.repos.User().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := game.PlayerProfile{
		ID:            sessionKey(userID),
		Username:      user.Username,
		Level:         row.Level,
		XP:            row.XP,
		XPToNextLevel: row.XPToNextLevel,
		Chips:         row.Chips,
		Stats: game.PlayerStats{
			ImagesCollected:      row.ImagesCollected,
			PromptsCompleted:     row.PromptsCompleted,
			RobotsAssembled:      row.RobotsAssembled,
			AccurateVotes:        row.AccurateVotes,
			TotalVotes:           row.TotalVotes,
			DailyQuestsCompleted: row.DailyQuestsCompleted,
			FakesDetected:        row.FakesDetected,
			StrikesReceived:      row.StrikesReceived,
			FirstDiscoveries:     row.FirstDiscoveries,
		},
	}

	state := game.State{Player: profile}

	// 部件库存
	parts, err := s.repos.RobotPart().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		state.Inventory.RobotParts = append(state.Inventory.RobotParts, partToGame(p))
	}

	// 机器人
	robots, err := s.repos.Robot().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range robots {
		assembled, err := robotToGame(r)
		if err != nil {
			s.log.Warn("机器人部件快照解析失败",
				zap.String("robot_id", r.RobotID),
				zap.Error(err))
			continue
		}
		state.Inventory.Robots = append(state.Inventory.Robots, assembled)
		if row.CurrentRobotID != "" && assembled.ID == row.CurrentRobotID {
			current := assembled
			state.Player.CurrentRobot = &current
		}
	}

	// 提交历史（取最近一页，完整历史走查询接口）
	pagination := repository.NewPagination(1, 50)
	submissions, err := s.repos.Submission().FindByUserID(ctx, userID, pagination)
	if err != nil {
		return nil, err
	}
	for _, sub := range submissions {
		state.Inventory.Images = append(state.Inventory.Images, submissionToGame(sub))
	}

	// 每日任务
	quests, err := s.repos.Quest().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, q := range quests {
		state.Quests = append(state.Quests, questToGame(q))
	}

	return &state, nil
}

// freshState 新玩家的初始游戏状态
func (s *playerService) freshState(ctx context.Context, userID uint) (*game.State, error) {
	user, err := s.repos.User().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := game.NewPlayerProfile(
		sessionKey(userID),
		user.Username,
		s.params.InitialChips,
		s.params.InitialXPToNext,
	)
	state := game.NewState(profile, nil)
	return &state, nil
}

// promptToGame 目录行转游戏挑战
func promptToGame(p *models.Prompt) *game.PromptData {
	return &game.PromptData{
		ID:         p.PromptID,
		Text:       p.Text,
		Category:   p.Category,
		Difficulty: p.Difficulty,
		Rarity:     game.Rarity(p.Rarity),
		Icon:       p.Icon,
		Rewards: game.PromptRewards{
			XP:              p.RewardXP,
			Chips:           p.RewardChips,
			RobotPartChance: p.RobotPartChance,
		},
	}
}

// partToGame 部件行转游戏部件
func partToGame(p *models.RobotPart) game.RobotPart {
	return game.RobotPart{
		ID:       p.PartID,
		Type:     game.PartType(p.Type),
		Name:     p.Name,
		Rarity:   game.Rarity(p.Rarity),
		ImageURL: p.ImageURL,
		Stats: game.PartStats{
			Power:        p.Power,
			Agility:      p.Agility,
			Intelligence: p.Intelligence,
		},
	}
}

// partToModel 游戏部件转部件行
func partToModel(userID uint, p game.RobotPart) *models.RobotPart {
	return &models.RobotPart{
		PartID:       p.ID,
		UserID:       userID,
		Type:         string(p.Type),
		Name:         p.Name,
		Rarity:       string(p.Rarity),
		ImageURL:     p.ImageURL,
		Power:        p.Stats.Power,
		Agility:      p.Stats.Agility,
		Intelligence: p.Stats.Intelligence,
	}
}

// robotToGame 机器人行转游戏机器人（部件快照JSON反序列化）
func robotToGame(r *models.Robot) (game.AssembledRobot, error) {
	assembled := game.AssembledRobot{
		ID:        r.RobotID,
		Name:      r.Name,
		Timestamp: r.AssembledAt,
		Parts:     make(map[game.PartType]game.RobotPart),
		TotalStats: game.PartStats{
			Power:        r.TotalPower,
			Agility:      r.TotalAgility,
			Intelligence: r.TotalIntelligence,
		},
	}

	if r.Parts != nil {
		raw, err := json.Marshal(r.Parts)
		if err != nil {
			return assembled, err
		}
		if err := json.Unmarshal(raw, &assembled.Parts); err != nil {
			return assembled, err
		}
	}
	return assembled, nil
}

// robotToModel 游戏机器人转机器人行
func robotToModel(userID uint, r game.AssembledRobot) (*models.Robot, error) {
	raw, err := json.Marshal(r.Parts)
	if err != nil {
		return nil, err
	}
	var parts models.JSONMap
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, err
	}

	return &models.Robot{
		RobotID:           r.ID,
		UserID:            userID,
		Name:              r.Name,
		Parts:             parts,
		AssembledAt:       r.Timestamp,
		TotalPower:        r.TotalStats.Power,
		TotalAgility:      r.TotalStats.Agility,
		TotalIntelligence: r.TotalStats.Intelligence,
	}, nil
}

// submissionToGame 提交行转游戏提交记录
func submissionToGame(sub *models.ImageSubmission) game.ImageSubmission {
	result := game.ImageSubmission{
		ID:               sub.SubmissionID,
		PromptID:         sub.PromptID,
		ImageURL:         sub.ImageURL,
		Timestamp:        sub.SubmittedAt,
		ModerationStatus: sub.ModerationStatus,
		ModerationScore:  sub.ModerationScore,
		ModerationFlags:  sub.ModerationFlags,
		IsAppropriate:    sub.IsAppropriate,
		IsRelevant:       sub.IsRelevant,
		IsHighQuality:    sub.IsHighQuality,
		VoteCount: game.VoteCount{
			Authentic: sub.AuthenticVotes,
			Fake:      sub.FakeVotes,
		},
		Rewards: game.SubmissionRewards{
			XP:    sub.RewardXP,
			Chips: sub.RewardChips,
		},
		IsVerified:      sub.IsVerified,
		IsFirstTimeItem: sub.IsFirstTimeItem,
	}

	if sub.Analysis != nil {
		raw, err := json.Marshal(sub.Analysis)
		if err == nil {
			var analysis game.Analysis
			if json.Unmarshal(raw, &analysis) == nil {
				result.Analysis = &analysis
			}
		}
	}
	return result
}

// questToGame 任务行转游戏任务
func questToGame(q *models.Quest) game.DailyQuest {
	return game.DailyQuest{
		ID:          q.QuestID,
		Title:       q.Title,
		Description: q.Description,
		Type:        game.QuestType(q.Type),
		Goal:        q.Goal,
		Progress:    q.Progress,
		Completed:   q.Completed,
		Rewards: game.QuestRewards{
			XP:              q.RewardXP,
			Chips:           q.RewardChips,
			RobotPartChance: q.RobotPartChance,
		},
	}
}
