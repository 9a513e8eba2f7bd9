package repository

import (
	"context"
	"errors"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"gorm.io/gorm"
)

// RobotPartRepository 机器人部件仓储接口
type RobotPartRepository interface {
	BaseRepository
	Create(ctx context.Context, part *models.RobotPart) error
	FindByPartID(ctx context.Context, userID uint, partID string) (*models.RobotPart, error)
	FindByUserID(ctx context.Context, userID uint) ([]*models.RobotPart, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountByRarity(ctx context.Context, userID uint, rarity string) (int64, error)
}

// robotPartRepo 机器人部件仓储实现
type robotPartRepo struct {
	*BaseRepo
}

// NewRobotPartRepository 创建机器人部件仓储
func NewRobotPartRepository(db *gorm.DB) RobotPartRepository {
	return &robotPartRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建部件
func (r *robotPartRepo) Create(ctx context.Context, part *models.RobotPart) error {
	return r.db.WithContext(ctx).Create(part).Error
}

// FindByPartID 根据部件ID查找用户的部件
func (r *robotPartRepo) FindByPartID(ctx context.Context, userID uint, partID string) (*models.RobotPart, error) {
	var part models.RobotPart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND part_id = ?", userID, partID).
		First(&part).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("部件不存在")
		}
		return nil, err
	}
	return &part, nil
}

// FindByUserID 查找用户的全部部件库存
func (r *robotPartRepo) FindByUserID(ctx context.Context, userID uint) ([]*models.RobotPart, error) {
	var parts []*models.RobotPart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&parts).Error
	return parts, err
}

// CountByUser 统计用户的部件数
func (r *robotPartRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RobotPart{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountByRarity 按稀有度统计用户的部件数
func (r *robotPartRepo) CountByRarity(ctx context.Context, userID uint, rarity string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RobotPart{}).
		Where("user_id = ? AND rarity = ?", userID, rarity).
		Count(&count).Error
	return count, err
}

// RobotRepository 组装机器人仓储接口
type RobotRepository interface {
	BaseRepository
	Create(ctx context.Context, robot *models.Robot) error
	FindByRobotID(ctx context.Context, userID uint, robotID string) (*models.Robot, error)
	FindByUserID(ctx context.Context, userID uint) ([]*models.Robot, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// robotRepo 组装机器人仓储实现
type robotRepo struct {
	*BaseRepo
}

// NewRobotRepository 创建组装机器人仓储
func NewRobotRepository(db *gorm.DB) RobotRepository {
	return &robotRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建机器人记录（组装后快照不可变）
func (r *robotRepo) Create(ctx context.Context, robot *models.Robot) error {
	return r.db.WithContext(ctx).Create(robot).Error
}

// FindByRobotID 根据机器人ID查找用户的机器人
func (r *robotRepo) FindByRobotID(ctx context.Context, userID uint, robotID string) (*models.Robot, error) {
	var robot models.Robot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND robot_id = ?", userID, robotID).
		First(&robot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("机器人不存在")
		}
		return nil, err
	}
	return &robot, nil
}

// FindByUserID 查找用户的全部机器人
func (r *robotRepo) FindByUserID(ctx context.Context, userID uint) ([]*models.Robot, error) {
	var robots []*models.Robot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("assembled_at ASC").
		Find(&robots).Error
	return robots, err
}

// CountByUser 统计用户的机器人数
func (r *robotRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Robot{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// WithTx 使用事务
func (r *robotPartRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &robotPartRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}

// WithTx 使用事务
func (r *robotRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &robotRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
