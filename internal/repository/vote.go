package repository

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"gorm.io/gorm"
)

// VoteRepository 投票仓储接口
type VoteRepository interface {
	BaseRepository
	Create(ctx context.Context, vote *models.UserVote) error
	HasVoted(ctx context.Context, userID uint, imageID string) (bool, error)
	FindByImageID(ctx context.Context, imageID string) ([]*models.UserVote, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountByImage(ctx context.Context, imageID string) (authentic int64, fake int64, err error)
}

// voteRepo 投票仓储实现
type voteRepo struct {
	*BaseRepo
}

// NewVoteRepository 创建投票仓储
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建投票记录。同一用户对同一图片重复投票
// 会触发唯一约束，映射为ErrAlreadyVoted。
func (r *voteRepo) Create(ctx context.Context, vote *models.UserVote) error {
	err := r.db.WithContext(ctx).Create(vote).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			return apperrors.New(apperrors.ErrAlreadyVoted)
		}
		return err
	}
	return nil
}

// HasVoted 查询用户是否已对图片投票
func (r *voteRepo) HasVoted(ctx context.Context, userID uint, imageID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserVote{}).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Count(&count).Error
	return count > 0, err
}

// FindByImageID 查找图片的所有投票
func (r *voteRepo) FindByImageID(ctx context.Context, imageID string) ([]*models.UserVote, error) {
	var votes []*models.UserVote
	err := r.db.WithContext(ctx).
		Where("image_id = ?", imageID).
		Order("created_at ASC").
		Find(&votes).Error
	return votes, err
}

// CountByUser 统计用户的投票总数
func (r *voteRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserVote{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountByImage 按类型统计图片的票数
func (r *voteRepo) CountByImage(ctx context.Context, imageID string) (int64, int64, error) {
	var authentic, fake int64
	err := r.db.WithContext(ctx).
		Model(&models.UserVote{}).
		Where("image_id = ? AND vote_type = ?", imageID, "authentic").
		Count(&authentic).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).
		Model(&models.UserVote{}).
		Where("image_id = ? AND vote_type = ?", imageID, "fake").
		Count(&fake).Error
	return authentic, fake, err
}

// isDuplicateKeyError 判断是否为唯一约束冲突。
// SQLite与MySQL/PostgreSQL驱动的错误表达不同，统一在此归一化。
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// WithTx 使用事务
func (r *voteRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &voteRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
