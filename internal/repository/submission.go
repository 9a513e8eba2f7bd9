package repository

import (
	"context"
	"errors"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"gorm.io/gorm"
)

// SubmissionRepository 图片提交仓储接口
type SubmissionRepository interface {
	BaseRepository
	Create(ctx context.Context, submission *models.ImageSubmission) error
	Update(ctx context.Context, submission *models.ImageSubmission) error
	FindBySubmissionID(ctx context.Context, submissionID string) (*models.ImageSubmission, error)
	FindByUserID(ctx context.Context, userID uint, pagination *Pagination) ([]*models.ImageSubmission, error)
	FindApproved(ctx context.Context, pagination *Pagination) ([]*models.ImageSubmission, error)
	FindPendingForVoting(ctx context.Context, excludeUserID uint, limit int) ([]*models.ImageSubmission, error)
	UpdateModeration(ctx context.Context, submissionID string, status string) error
	IncrementVote(ctx context.Context, submissionID string, authentic bool) error
	MarkVerified(ctx context.Context, submissionID string) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// submissionRepo 图片提交仓储实现
type submissionRepo struct {
	*BaseRepo
}

// NewSubmissionRepository 创建图片提交仓储
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建提交记录
func (r *submissionRepo) Create(ctx context.Context, submission *models.ImageSubmission) error {
	if submission.ModerationStatus == "" {
		submission.ModerationStatus = models.ModerationPending
	}
	return r.db.WithContext(ctx).Create(submission).Error
}

// Update 更新提交记录
func (r *submissionRepo) Update(ctx context.Context, submission *models.ImageSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

// FindBySubmissionID 根据提交ID查找
func (r *submissionRepo) FindBySubmissionID(ctx context.Context, submissionID string) (*models.ImageSubmission, error) {
	var submission models.ImageSubmission
	err := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("提交记录不存在")
		}
		return nil, err
	}
	return &submission, nil
}

// FindByUserID 查找用户的提交历史（分页，按时间倒序）
func (r *submissionRepo) FindByUserID(ctx context.Context, userID uint, pagination *Pagination) ([]*models.ImageSubmission, error) {
	var submissions []*models.ImageSubmission
	query := r.db.WithContext(ctx).Model(&models.ImageSubmission{}).Where("user_id = ?", userID)
	err := CountAndPaginate(query, pagination, "submitted_at DESC", &submissions)
	return submissions, err
}

// FindApproved 查找已通过审核的提交（分页）
func (r *submissionRepo) FindApproved(ctx context.Context, pagination *Pagination) ([]*models.ImageSubmission, error) {
	var submissions []*models.ImageSubmission
	query := r.db.WithContext(ctx).
		Model(&models.ImageSubmission{}).
		Where("moderation_status = ?", models.ModerationApproved)
	err := CountAndPaginate(query, pagination, "submitted_at DESC", &submissions)
	return submissions, err
}

// FindPendingForVoting 查找待投票验证的提交（排除投票者本人的提交）
func (r *submissionRepo) FindPendingForVoting(ctx context.Context, excludeUserID uint, limit int) ([]*models.ImageSubmission, error) {
	var submissions []*models.ImageSubmission
	err := r.db.WithContext(ctx).
		Where("moderation_status = ? AND is_verified = ? AND user_id != ?",
			models.ModerationApproved, false, excludeUserID).
		Order("submitted_at ASC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

// UpdateModeration 更新审核状态
func (r *submissionRepo) UpdateModeration(ctx context.Context, submissionID string, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.ImageSubmission{}).
		Where("submission_id = ?", submissionID).
		Update("moderation_status", status).Error
}

// IncrementVote 原子累加投票计数（票数只增不减）
func (r *submissionRepo) IncrementVote(ctx context.Context, submissionID string, authentic bool) error {
	column := "fake_votes"
	if authentic {
		column = "authentic_votes"
	}
	result := r.db.WithContext(ctx).
		Model(&models.ImageSubmission{}).
		Where("submission_id = ?", submissionID).
		Update(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	// 提交不存在时计数不变，调用方决定是否关心
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkVerified 标记提交已通过社区验证
func (r *submissionRepo) MarkVerified(ctx context.Context, submissionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.ImageSubmission{}).
		Where("submission_id = ?", submissionID).
		Update("is_verified", true).Error
}

// CountByUser 统计用户的提交总数
func (r *submissionRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ImageSubmission{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// WithTx 使用事务
func (r *submissionRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &submissionRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
