package repository

import (
	"context"
	"errors"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"gorm.io/gorm"
)

// QuestRepository 每日任务仓储接口
type QuestRepository interface {
	BaseRepository
	Create(ctx context.Context, quest *models.Quest) error
	BatchCreate(ctx context.Context, quests []*models.Quest) error
	Update(ctx context.Context, quest *models.Quest) error
	FindByQuestID(ctx context.Context, userID uint, questID string) (*models.Quest, error)
	FindByUserID(ctx context.Context, userID uint) ([]*models.Quest, error)
	UpdateProgress(ctx context.Context, userID uint, questID string, progress int, completed bool) error
	ReplaceDaily(ctx context.Context, userID uint, quests []*models.Quest) error
	CountCompleted(ctx context.Context, userID uint) (int64, error)
}

// questRepo 每日任务仓储实现
type questRepo struct {
	*BaseRepo
}

// NewQuestRepository 创建每日任务仓储
func NewQuestRepository(db *gorm.DB) QuestRepository {
	return &questRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建任务
func (r *questRepo) Create(ctx context.Context, quest *models.Quest) error {
	return r.db.WithContext(ctx).Create(quest).Error
}

// BatchCreate 批量创建任务
func (r *questRepo) BatchCreate(ctx context.Context, quests []*models.Quest) error {
	if len(quests) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(quests).Error
}

// Update 更新任务
func (r *questRepo) Update(ctx context.Context, quest *models.Quest) error {
	return r.db.WithContext(ctx).Save(quest).Error
}

// FindByQuestID 根据任务ID查找用户的任务
func (r *questRepo) FindByQuestID(ctx context.Context, userID uint, questID string) (*models.Quest, error) {
	var quest models.Quest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		First(&quest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("任务不存在")
		}
		return nil, err
	}
	return &quest, nil
}

// FindByUserID 查找用户的所有任务
func (r *questRepo) FindByUserID(ctx context.Context, userID uint) ([]*models.Quest, error) {
	var quests []*models.Quest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&quests).Error
	return quests, err
}

// UpdateProgress 更新任务进度
func (r *questRepo) UpdateProgress(ctx context.Context, userID uint, questID string, progress int, completed bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Quest{}).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Updates(map[string]interface{}{
			"progress":  progress,
			"completed": completed,
		}).Error
}

// ReplaceDaily 替换用户的每日任务（先删后插，在同一事务内）
func (r *questRepo) ReplaceDaily(ctx context.Context, userID uint, quests []*models.Quest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Quest{}).Error; err != nil {
			return err
		}
		if len(quests) == 0 {
			return nil
		}
		return tx.Create(quests).Error
	})
}

// CountCompleted 统计用户完成的任务数
func (r *questRepo) CountCompleted(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Quest{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// WithTx 使用事务
func (r *questRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &questRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
