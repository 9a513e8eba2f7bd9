package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/SphoenixAI/image-verse-quest/internal/game"
	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/SphoenixAI/image-verse-quest/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// questService 每日任务服务实现
type questService struct {
	repos     *repository.Manager
	players   *playerService
	publisher EventPublisher
	log       *zap.Logger
}

// NewQuestService 创建每日任务服务
func NewQuestService(
	repos *repository.Manager,
	players *playerService,
	publisher EventPublisher,
	log *zap.Logger,
) QuestService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &questService{
		repos:     repos,
		players:   players,
		publisher: publisher,
		log:       log,
	}
}

// EnsureDaily 确保用户持有当日任务。
// 任务行的创建日期不是今天时整组轮换，进度清零。
func (s *questService) EnsureDaily(ctx context.Context, userID uint) ([]*models.Quest, error) {
	quests, err := s.repos.Quest().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(quests) > 0 && isSameDay(quests[0].CreatedAt, time.Now()) {
		return quests, nil
	}

	// 轮换前先落盘并撤下内存会话，避免旧进度写回新任务
	if _, ok := s.players.sessions.GetSessionByUser(userID); ok {
		if err := s.players.sessions.RemoveSession(ctx, sessionKey(userID)); err != nil {
			s.log.Warn("撤下会话失败", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	fresh := dailyQuestTemplates(userID)
	if err := s.repos.Quest().ReplaceDaily(ctx, userID, fresh); err != nil {
		return nil, err
	}

	s.log.Info("每日任务已轮换", zap.Uint("user_id", userID))
	s.publisher.Publish(userID, "quests.rotated", map[string]interface{}{
		"count": len(fresh),
	})

	return s.repos.Quest().FindByUserID(ctx, userID)
}

// List 列出用户当前任务（必要时先发放）
func (s *questService) List(ctx context.Context, userID uint) ([]*models.Quest, error) {
	return s.EnsureDaily(ctx, userID)
}

// UpdateProgress 设置任务进度。
// 进度是绝对值；首次跨过目标时发放任务奖励。
func (s *questService) UpdateProgress(ctx context.Context, userID uint, questID string, progress int) (*models.Quest, error) {
	quest, err := s.repos.Quest().FindByQuestID(ctx, userID, questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrQuestNotFound)
		}
		return nil, err
	}

	if progress < 0 {
		progress = 0
	}
	wasDone := quest.IsDone()
	completed := progress >= quest.Goal

	session, err := s.players.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	state := session.Engine.Dispatch(game.UpdateQuestProgress{
		QuestID:  questID,
		Progress: progress,
	})

	if completed && !wasDone {
		session.Engine.Dispatch(game.AwardXP{Amount: quest.RewardXP})
		session.Engine.Dispatch(game.AwardChips{Amount: quest.RewardChips})
		state = session.Engine.Dispatch(game.CreditQuestCompletion{})

		s.log.Info("每日任务完成",
			zap.Uint("user_id", userID),
			zap.String("quest_id", questID),
			zap.Int("reward_xp", quest.RewardXP),
			zap.Int("reward_chips", quest.RewardChips))
		s.publisher.Publish(userID, "quest.completed", map[string]interface{}{
			"quest_id":     questID,
			"reward_xp":    quest.RewardXP,
			"reward_chips": quest.RewardChips,
		})
	}

	if err := s.repos.Quest().UpdateProgress(ctx, userID, questID, progress, completed); err != nil {
		return nil, err
	}
	if err := s.players.Save(ctx, userID, &state); err != nil {
		s.log.Error("保存玩家状态失败", zap.Uint("user_id", userID), zap.Error(err))
	}

	quest.Progress = progress
	quest.Completed = completed
	return quest, nil
}

// isSameDay 判断两个时间是否落在同一本地日历日
func isSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dailyQuestTemplates 每日任务模板（收集、鉴别、步行）
func dailyQuestTemplates(userID uint) []*models.Quest {
	return []*models.Quest{
		{
			QuestID:         "quest-001",
			UserID:          userID,
			Title:           "Image Collector",
			Description:     "Collect 3 images of any type",
			Type:            string(game.QuestCollect),
			Goal:            3,
			RewardXP:        150,
			RewardChips:     10,
			RobotPartChance: 0.2,
		},
		{
			QuestID:         "quest-002",
			UserID:          userID,
			Title:           "Deepfake Detective",
			Description:     "Vote on 5 images for authenticity",
			Type:            string(game.QuestVote),
			Goal:            5,
			RewardXP:        100,
			RewardChips:     8,
			RobotPartChance: 0.1,
		},
		{
			QuestID:         "quest-003",
			UserID:          userID,
			Title:           "Explorer",
			Description:     "Walk 1km while playing",
			Type:            string(game.QuestWalk),
			Goal:            1000,
			RewardXP:        200,
			RewardChips:     15,
			RobotPartChance: 0.3,
		},
	}
}
