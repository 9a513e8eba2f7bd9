package repository

import (
	"context"
	"errors"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"gorm.io/gorm"
)

// PromptRepository 拍摄挑战目录仓储接口
type PromptRepository interface {
	BaseRepository
	Create(ctx context.Context, prompt *models.Prompt) error
	FindByPromptID(ctx context.Context, promptID string) (*models.Prompt, error)
	FindActive(ctx context.Context) ([]*models.Prompt, error)
	FindByCategory(ctx context.Context, category string) ([]*models.Prompt, error)
	Count(ctx context.Context) (int64, error)
}

// promptRepo 拍摄挑战目录仓储实现
type promptRepo struct {
	*BaseRepo
}

// NewPromptRepository 创建拍摄挑战目录仓储
func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建挑战条目
func (r *promptRepo) Create(ctx context.Context, prompt *models.Prompt) error {
	return r.db.WithContext(ctx).Create(prompt).Error
}

// FindByPromptID 根据挑战ID查找
func (r *promptRepo) FindByPromptID(ctx context.Context, promptID string) (*models.Prompt, error) {
	var prompt models.Prompt
	err := r.db.WithContext(ctx).Where("prompt_id = ?", promptID).First(&prompt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("挑战不存在")
		}
		return nil, err
	}
	return &prompt, nil
}

// FindActive 查找所有启用的挑战
func (r *promptRepo) FindActive(ctx context.Context) ([]*models.Prompt, error) {
	var prompts []*models.Prompt
	err := r.db.WithContext(ctx).
		Where("status = ?", "active").
		Order("prompt_id ASC").
		Find(&prompts).Error
	return prompts, err
}

// FindByCategory 按类别查找启用的挑战
func (r *promptRepo) FindByCategory(ctx context.Context, category string) ([]*models.Prompt, error) {
	var prompts []*models.Prompt
	err := r.db.WithContext(ctx).
		Where("status = ? AND category = ?", "active", category).
		Order("prompt_id ASC").
		Find(&prompts).Error
	return prompts, err
}

// Count 统计挑战总数
func (r *promptRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Prompt{}).
		Count(&count).Error
	return count, err
}

// WithTx 使用事务
func (r *promptRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &promptRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
