package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/SphoenixAI/image-verse-quest/internal/game"
	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/SphoenixAI/image-verse-quest/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// robotSlots 组装必须占满的槽位（配件可留空）
var robotSlots = []game.PartType{
	game.PartHead,
	game.PartTorso,
	game.PartArms,
	game.PartLegs,
}

// robotService 机器人服务实现
type robotService struct {
	repos     *repository.Manager
	players   *playerService
	publisher EventPublisher
	log       *zap.Logger
}

// NewRobotService 创建机器人服务
func NewRobotService(
	repos *repository.Manager,
	players *playerService,
	publisher EventPublisher,
	log *zap.Logger,
) RobotService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &robotService{
		repos:     repos,
		players:   players,
		publisher: publisher,
		log:       log,
	}
}

// Inventory 获取部件库存
func (s *robotService) Inventory(ctx context.Context, userID uint) ([]*models.RobotPart, error) {
	return s.repos.RobotPart().FindByUserID(ctx, userID)
}

// Assemble 用库存部件组装机器人。
// 四个主槽位必须占满，配件可选；合计属性按轴求和，
// 组装后的机器人不可变并自动设为当前出战。
func (s *robotService) Assemble(ctx context.Context, req *AssembleRobotRequest) (*game.AssembledRobot, error) {
	if req.Name == "" {
		return nil, apperrors.New(apperrors.ErrInvalidParam, "机器人名称不能为空")
	}

	parts := make(map[game.PartType]game.RobotPart, len(req.PartIDs))
	for slot, partID := range req.PartIDs {
		partType := game.PartType(slot)
		switch partType {
		case game.PartHead, game.PartTorso, game.PartArms, game.PartLegs, game.PartAccessory:
		default:
			return nil, apperrors.Newf(apperrors.ErrInvalidParam, "未知的部件槽位: %s", slot)
		}

		row, err := s.repos.RobotPart().FindByPartID(ctx, req.UserID, partID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Newf(apperrors.ErrPartNotFound, "部件不存在: %s", partID)
			}
			return nil, err
		}
		if game.PartType(row.Type) != partType {
			return nil, apperrors.Newf(apperrors.ErrInvalidParam,
				"部件 %s 不能装入 %s 槽位", partID, slot)
		}
		parts[partType] = partToGame(row)
	}

	for _, slot := range robotSlots {
		if _, ok := parts[slot]; !ok {
			return nil, apperrors.Newf(apperrors.ErrInvalidParam, "缺少必需槽位: %s", slot)
		}
	}

	robot := game.AssembledRobot{
		ID:         "robot-" + uuid.NewString(),
		Name:       req.Name,
		Parts:      parts,
		Timestamp:  time.Now(),
		TotalStats: game.SumPartStats(parts),
	}

	row, err := robotToModel(req.UserID, robot)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Robot().Create(ctx, row); err != nil {
		return nil, err
	}

	session, err := s.players.Session(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	state := session.Engine.Dispatch(game.AssembleRobot{Robot: robot})
	if err := s.players.Save(ctx, req.UserID, &state); err != nil {
		s.log.Error("保存玩家状态失败", zap.Uint("user_id", req.UserID), zap.Error(err))
	}

	s.log.Info("机器人组装完成",
		zap.Uint("user_id", req.UserID),
		zap.String("robot_id", robot.ID),
		zap.String("name", robot.Name))
	s.publisher.Publish(req.UserID, "robot.assembled", map[string]interface{}{
		"robot_id":    robot.ID,
		"name":        robot.Name,
		"total_stats": robot.TotalStats,
	})

	return &robot, nil
}

// SetCurrent 设置当前出战机器人
func (s *robotService) SetCurrent(ctx context.Context, userID uint, robotID string) error {
	if _, err := s.repos.Robot().FindByRobotID(ctx, userID, robotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrRobotNotFound)
		}
		return err
	}

	session, err := s.players.Session(ctx, userID)
	if err != nil {
		return err
	}
	state := session.Engine.Dispatch(game.SetCurrentRobot{RobotID: robotID})
	if err := s.players.Save(ctx, userID, &state); err != nil {
		s.log.Error("保存玩家状态失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}

// List 列出已组装的机器人
func (s *robotService) List(ctx context.Context, userID uint) ([]*models.Robot, error) {
	return s.repos.Robot().FindByUserID(ctx, userID)
}
