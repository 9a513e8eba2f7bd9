package repository

import (
	"context"
	"errors"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"gorm.io/gorm"
)

// DiscoveryRepository 首次发现登记仓储接口
type DiscoveryRepository interface {
	BaseRepository
	// Register 登记实体的首次发现。返回true表示本次为首次发现，
	// 已被他人登记过时返回false（不报错）。
	Register(ctx context.Context, entityName string, userID uint, submissionID string) (bool, error)
	IsDiscovered(ctx context.Context, entityName string) (bool, error)
	FindByUser(ctx context.Context, userID uint) ([]*models.DiscoveredEntity, error)
	Count(ctx context.Context) (int64, error)
}

// discoveryRepo 首次发现登记仓储实现
type discoveryRepo struct {
	*BaseRepo
}

// NewDiscoveryRepository 创建首次发现登记仓储
func NewDiscoveryRepository(db *gorm.DB) DiscoveryRepository {
	return &discoveryRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Register 登记首次发现。并发提交同一实体时靠唯一索引裁决，
// 约束冲突视为他人已捷足先登。
func (r *discoveryRepo) Register(ctx context.Context, entityName string, userID uint, submissionID string) (bool, error) {
	entity := &models.DiscoveredEntity{
		EntityName:   entityName,
		DiscoveredBy: userID,
		SubmissionID: submissionID,
	}
	err := r.db.WithContext(ctx).Create(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsDiscovered 查询实体是否已被发现
func (r *discoveryRepo) IsDiscovered(ctx context.Context, entityName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiscoveredEntity{}).
		Where("entity_name = ?", entityName).
		Count(&count).Error
	return count > 0, err
}

// FindByUser 查找用户的所有首次发现
func (r *discoveryRepo) FindByUser(ctx context.Context, userID uint) ([]*models.DiscoveredEntity, error) {
	var entities []*models.DiscoveredEntity
	err := r.db.WithContext(ctx).
		Where("discovered_by = ?", userID).
		Order("created_at DESC").
		Find(&entities).Error
	return entities, err
}

// Count 统计发现总数
func (r *discoveryRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiscoveredEntity{}).
		Count(&count).Error
	return count, err
}

// WithTx 使用事务
func (r *discoveryRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &discoveryRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
