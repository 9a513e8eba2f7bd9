package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SphoenixAI/image-verse-quest/internal/analyzer"
	apperrors "github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/SphoenixAI/image-verse-quest/internal/game"
	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/SphoenixAI/image-verse-quest/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// submissionService 图片提交服务实现
type submissionService struct {
	repos     *repository.Manager
	analyzer  *analyzer.Analyzer
	policy    analyzer.ModerationPolicy
	players   *playerService
	publisher EventPublisher
	log       *zap.Logger
}

// NewSubmissionService 创建图片提交服务
func NewSubmissionService(
	repos *repository.Manager,
	imageAnalyzer *analyzer.Analyzer,
	policy analyzer.ModerationPolicy,
	players *playerService,
	publisher EventPublisher,
	log *zap.Logger,
) SubmissionService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &submissionService{
		repos:     repos,
		analyzer:  imageAnalyzer,
		policy:    policy,
		players:   players,
		publisher: publisher,
		log:       log,
	}
}

// Analyze 仅执行分析评估
func (s *submissionService) Analyze(ctx context.Context, imageURL, promptText string) (*AnalyzeResult, error) {
	result, err := s.analyzer.Evaluate(ctx, imageURL, promptText)
	if err != nil {
		return nil, err
	}
	return &AnalyzeResult{
		Analysis:        result.Analysis,
		IsAppropriate:   result.IsAppropriate,
		IsRelevant:      result.IsRelevant,
		IsHighQuality:   result.IsHighQuality,
		ModerationScore: result.ModerationScore,
		ModerationFlags: result.ModerationFlags,
	}, nil
}

// Submit 提交图片走完整管线：分析→审核门禁→入库→奖励→状态更新→广播
func (s *submissionService) Submit(ctx context.Context, req *SubmitImageRequest) (*SubmitImageResult, error) {
	prompt, err := s.repos.Prompt().FindByPromptID(ctx, req.PromptID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrNotFound)
	}

	// 分析评估
	evaluation, err := s.analyzer.Evaluate(ctx, req.ImageURL, prompt.Text)
	if err != nil {
		return nil, err
	}

	submissionID := uuid.New().String()
	row := &models.ImageSubmission{
		SubmissionID:    submissionID,
		UserID:          req.UserID,
		PromptID:        prompt.PromptID,
		ImageURL:        req.ImageURL,
		SubmittedAt:     time.Now(),
		ModerationScore: evaluation.ModerationScore,
		ModerationFlags: models.JSONMap(evaluation.ModerationFlags),
		IsAppropriate:   boolPtr(evaluation.IsAppropriate),
		IsRelevant:      boolPtr(evaluation.IsRelevant),
		IsHighQuality:   boolPtr(evaluation.IsHighQuality),
		Analysis:        analysisToJSONMap(&evaluation.Analysis),
	}

	// 审核门禁：被拒绝的提交保留记录但不发奖励
	if !s.policy.Accepts(evaluation) {
		row.ModerationStatus = models.ModerationRejected
		if err := s.repos.Submission().Create(ctx, row); err != nil {
			return nil, fmt.Errorf("保存拒绝记录失败: %w", err)
		}
		s.log.Info("提交未通过审核",
			zap.Uint("user_id", req.UserID),
			zap.String("submission_id", submissionID),
			zap.Float64("moderation_score", evaluation.ModerationScore))
		return nil, apperrors.New(apperrors.ErrImageRejected)
	}
	row.ModerationStatus = models.ModerationApproved

	// 奖励结算基于玩家当前库存
	session, err := s.players.Session(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	snapshot := session.Engine.Snapshot()

	part := game.RollPartReward(session.Engine.Random(), prompt.RobotPartChance, snapshot.Inventory.RobotParts)

	// 首次发现登记：取置信度最高的检测物体作为实体名
	firstDiscovery := false
	discoveredEntity := ""
	if len(evaluation.Analysis.Objects) > 0 {
		discoveredEntity = evaluation.Analysis.Objects[0].Name
		firstDiscovery, err = s.repos.Discovery().Register(ctx, discoveredEntity, req.UserID, submissionID)
		if err != nil {
			s.log.Warn("首次发现登记失败", zap.String("entity", discoveredEntity), zap.Error(err))
			firstDiscovery = false
		}
	}
	if firstDiscovery {
		discoveryPart := game.NewDiscoveryPart(discoveredEntity)
		part = &discoveryPart
	}

	rewards := game.BuildSubmissionRewards(promptToGame(prompt), part, firstDiscovery)

	row.RewardXP = rewards.XP
	row.RewardChips = rewards.Chips
	row.IsFirstTimeItem = firstDiscovery
	if rewards.RobotPart != nil {
		row.RewardPartID = rewards.RobotPart.ID
	}

	if err := s.repos.Submission().Create(ctx, row); err != nil {
		return nil, fmt.Errorf("保存提交记录失败: %w", err)
	}

	// 新部件入库（从库存复制的重复部件也是一条新记录）
	if rewards.RobotPart != nil {
		partRow := partToModel(req.UserID, *rewards.RobotPart)
		if firstDiscovery {
			// 发现信标是全新部件，需要独立ID避免与库存原件混淆
			partRow.PartID = rewards.RobotPart.ID
		} else {
			partRow.PartID = uuid.New().String()
		}
		if err := s.repos.RobotPart().Create(ctx, partRow); err != nil {
			s.log.Error("保存奖励部件失败", zap.Error(err))
		} else {
			rewardPart := partToGame(partRow)
			session.Engine.Dispatch(game.AddRobotPart{Part: rewardPart})
			rewards.RobotPart = &rewardPart
		}
	}

	// 引擎状态推进
	gameSub := submissionToGame(row)
	gameSub.Analysis = &evaluation.Analysis
	gameSub.Rewards = rewards
	state := session.Engine.Dispatch(game.AddImageSubmission{Submission: gameSub})

	if err := s.players.Save(ctx, req.UserID, &state); err != nil {
		s.log.Error("保存玩家状态失败", zap.Uint("user_id", req.UserID), zap.Error(err))
	}

	s.publisher.Publish(req.UserID, "submission.approved", map[string]interface{}{
		"submission_id":   submissionID,
		"prompt_id":       prompt.PromptID,
		"rewards":         rewards,
		"first_discovery": firstDiscovery,
	})

	s.log.Info("图片提交完成",
		zap.Uint("user_id", req.UserID),
		zap.String("submission_id", submissionID),
		zap.Int("reward_xp", rewards.XP),
		zap.Int("reward_chips", rewards.Chips),
		zap.Bool("first_discovery", firstDiscovery))

	return &SubmitImageResult{
		Submission:       row,
		Rewards:          rewards,
		IsFirstDiscovery: firstDiscovery,
		DiscoveredEntity: discoveredEntity,
		State:            &state,
	}, nil
}

// History 查询提交历史
func (s *submissionService) History(ctx context.Context, userID uint, page, pageSize int) ([]*models.ImageSubmission, int64, error) {
	pagination := repository.NewPagination(page, pageSize)
	submissions, err := s.repos.Submission().FindByUserID(ctx, userID, pagination)
	if err != nil {
		return nil, 0, err
	}
	return submissions, pagination.Total, nil
}

// Get 查询单条提交
func (s *submissionService) Get(ctx context.Context, submissionID string) (*models.ImageSubmission, error) {
	return s.repos.Submission().FindBySubmissionID(ctx, submissionID)
}

// boolPtr 布尔指针辅助函数
func boolPtr(v bool) *bool {
	return &v
}

// analysisToJSONMap 分析结果转JSON存储格式
func analysisToJSONMap(analysis *game.Analysis) models.JSONMap {
	raw, err := json.Marshal(analysis)
	if err != nil {
		return nil
	}
	var m models.JSONMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
