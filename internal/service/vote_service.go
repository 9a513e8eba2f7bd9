package service

import (
	"context"
	"errors"

	"github.com/SphoenixAI/image-verse-quest/internal/game"
	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/SphoenixAI/image-verse-quest/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// voteService 社区投票服务实现
type voteService struct {
	repos     *repository.Manager
	players   *playerService
	params    *GameParams
	publisher EventPublisher
	log       *zap.Logger
}

// NewVoteService 创建投票服务
func NewVoteService(
	repos *repository.Manager,
	players *playerService,
	params *GameParams,
	publisher EventPublisher,
	log *zap.Logger,
) VoteService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if params == nil {
		params = DefaultGameParams()
	}
	return &voteService{
		repos:     repos,
		players:   players,
		params:    params,
		publisher: publisher,
		log:       log,
	}
}

// Cast 对提交投真伪票。
// 投票记录是事实来源：唯一约束裁决重复投票；
// 计票失败不回滚投票本身，只记日志。
func (s *voteService) Cast(ctx context.Context, req *CastVoteRequest) (*CastVoteResult, error) {
	voteType := "fake"
	if req.IsAuthentic {
		voteType = "authentic"
	}

	vote := &models.UserVote{
		UserID:   req.UserID,
		ImageID:  req.ImageID,
		VoteType: voteType,
	}
	if err := s.repos.Vote().Create(ctx, vote); err != nil {
		// 重复投票是可恢复错误，计数不变
		return nil, err
	}

	// 原子累加提交行上的计数
	if err := s.repos.Submission().IncrementVote(ctx, req.ImageID, req.IsAuthentic); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 目标提交不存在时计票为空操作，投票人的统计照常推进
			s.log.Warn("投票目标不存在，跳过计票",
				zap.String("image_id", req.ImageID),
				zap.Uint("user_id", req.UserID))
		} else {
			s.log.Error("累加票数失败",
				zap.String("image_id", req.ImageID),
				zap.Error(err))
		}
	}

	// 引擎状态镜像（推进投票统计与投票类任务）
	session, err := s.players.Session(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	state := session.Engine.Dispatch(game.VoteOnImage{
		ImageID:     req.ImageID,
		IsAuthentic: req.IsAuthentic,
	})

	result := &CastVoteResult{ImageID: req.ImageID}

	// 达到验证阈值后标记社区验证，并给本票发准确投票奖励
	submission, subErr := s.repos.Submission().FindBySubmissionID(ctx, req.ImageID)
	if subErr == nil {
		result.AuthenticVotes = submission.AuthenticVotes
		result.FakeVotes = submission.FakeVotes
		result.TotalVotes = submission.TotalVotes()
		result.Verified = submission.IsVerified

		if !submission.IsVerified && submission.AuthenticVotes >= s.params.VerifyThreshold {
			if err := s.repos.Submission().MarkVerified(ctx, req.ImageID); err != nil {
				s.log.Error("标记验证失败", zap.String("image_id", req.ImageID), zap.Error(err))
			} else {
				result.Verified = true
				s.publisher.Publish(submission.UserID, "submission.verified", map[string]interface{}{
					"submission_id":   req.ImageID,
					"authentic_votes": submission.AuthenticVotes,
				})
			}
		}

		// 与多数方向一致的票记为准确投票
		majority := submission.AuthenticVotes >= submission.FakeVotes
		if req.IsAuthentic == majority {
			session.Engine.Dispatch(game.AwardXP{Amount: s.params.AccurateVoteXP})
			state = session.Engine.Dispatch(game.CreditAccurateVote{WasFake: !req.IsAuthentic})
		}
	}

	if err := s.players.Save(ctx, req.UserID, &state); err != nil {
		s.log.Error("保存玩家状态失败", zap.Uint("user_id", req.UserID), zap.Error(err))
	}

	s.publisher.Publish(req.UserID, "vote.cast", map[string]interface{}{
		"image_id":  req.ImageID,
		"vote_type": voteType,
	})

	return result, nil
}

// HasVoted 查询是否已投过票
func (s *voteService) HasVoted(ctx context.Context, userID uint, imageID string) (bool, error) {
	return s.repos.Vote().HasVoted(ctx, userID, imageID)
}

// Queue 获取待验证的投票队列（排除本人提交与已投过的）
func (s *voteService) Queue(ctx context.Context, userID uint, limit int) ([]*models.ImageSubmission, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	candidates, err := s.repos.Submission().FindPendingForVoting(ctx, userID, limit*2)
	if err != nil {
		return nil, err
	}

	queue := make([]*models.ImageSubmission, 0, limit)
	for _, candidate := range candidates {
		voted, err := s.repos.Vote().HasVoted(ctx, userID, candidate.SubmissionID)
		if err != nil {
			return nil, err
		}
		if voted {
			continue
		}
		queue = append(queue, candidate)
		if len(queue) >= limit {
			break
		}
	}
	return queue, nil
}
