package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
)

// TestNewPagination 测试分页参数收敛
func TestNewPagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"正常参数", 2, 15, 2, 15},
		{"页码为零", 0, 15, 1, 15},
		{"页码为负", -3, 15, 1, 15},
		{"页大小为零取默认", 1, 0, 1, DefaultPageSize},
		{"页大小超限取上限", 1, 200, 1, MaxPageSize},
		{"页大小等于上限", 1, MaxPageSize, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
			assert.Equal(t, (tt.wantPage-1)*tt.wantPageSize, p.Offset())
		})
	}
}

// TestCountAndPaginate 测试统计加分页裁剪
func TestCountAndPaginate(t *testing.T) {
	db := SetupTestDB()
	defer CleanupTestDB(db)

	users := SeedTestUsers(t, db)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		sub := CreateTestSubmission(users[0].ID, fmt.Sprintf("sub-page-%03d", i), "prompt-001")
		err := repo.Create(ctx, sub)
		assert.NoError(t, err)
	}

	// 第一页满页，Total回填为全量
	p := NewPagination(1, 3)
	var page []*models.ImageSubmission
	query := db.Model(&models.ImageSubmission{}).Where("user_id = ?", users[0].ID)
	err := CountAndPaginate(query, p, "submitted_at DESC", &page)
	assert.NoError(t, err)
	assert.Len(t, page, 3)
	assert.Equal(t, int64(7), p.Total)

	// 末页只剩余数
	p = NewPagination(3, 3)
	page = nil
	query = db.Model(&models.ImageSubmission{}).Where("user_id = ?", users[0].ID)
	err = CountAndPaginate(query, p, "submitted_at DESC", &page)
	assert.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, int64(7), p.Total)
}
