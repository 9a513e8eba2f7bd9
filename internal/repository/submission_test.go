package repository

import (
	"context"
	"testing"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// SubmissionRepositoryTestSuite 图片提交仓储测试套件
type SubmissionRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	repo  SubmissionRepository
	users []models.User
}

func (suite *SubmissionRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewSubmissionRepository(suite.db)
	suite.users = SeedTestUsers(suite.T(), suite.db)
}

func (suite *SubmissionRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestSubmissionRepository_Create 测试创建提交（默认待审核）
func (suite *SubmissionRepositoryTestSuite) TestSubmissionRepository_Create() {
	ctx := context.Background()

	submission := CreateTestSubmission(suite.users[0].ID, "sub-001", "prompt-001")
	submission.ModerationStatus = ""

	err := suite.repo.Create(ctx, submission)
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), submission.ID)

	found, err := suite.repo.FindBySubmissionID(ctx, "sub-001")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.ModerationPending, found.ModerationStatus)
	assert.Equal(suite.T(), 0, found.AuthenticVotes)
	assert.Equal(suite.T(), 0, found.FakeVotes)
}

// TestSubmissionRepository_IncrementVote 测试票数原子累加
func (suite *SubmissionRepositoryTestSuite) TestSubmissionRepository_IncrementVote() {
	ctx := context.Background()

	submission := CreateTestSubmission(suite.users[0].ID, "sub-002", "prompt-001")
	err := suite.repo.Create(ctx, submission)
	assert.NoError(suite.T(), err)

	err = suite.repo.IncrementVote(ctx, "sub-002", true)
	assert.NoError(suite.T(), err)
	err = suite.repo.IncrementVote(ctx, "sub-002", true)
	assert.NoError(suite.T(), err)
	err = suite.repo.IncrementVote(ctx, "sub-002", false)
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindBySubmissionID(ctx, "sub-002")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, found.AuthenticVotes)
	assert.Equal(suite.T(), 1, found.FakeVotes)
	assert.Equal(suite.T(), 3, found.TotalVotes())
}

// TestSubmissionRepository_IncrementVoteMissing 测试对不存在的提交计票
func (suite *SubmissionRepositoryTestSuite) TestSubmissionRepository_IncrementVoteMissing() {
	ctx := context.Background()

	err := suite.repo.IncrementVote(ctx, "no-such-submission", true)
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

// TestSubmissionRepository_UpdateModeration 测试审核状态流转
func (suite *SubmissionRepositoryTestSuite) TestSubmissionRepository_UpdateModeration() {
	ctx := context.Background()

	submission := CreateTestSubmission(suite.users[0].ID, "sub-003", "prompt-001")
	err := suite.repo.Create(ctx, submission)
	assert.NoError(suite.T(), err)

	err = suite.repo.UpdateModeration(ctx, "sub-003", models.ModerationApproved)
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindBySubmissionID(ctx, "sub-003")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), found.IsApproved())
}

// TestSubmissionRepository_FindPendingForVoting 测试待验证提交排除本人
func (suite *SubmissionRepositoryTestSuite) TestSubmissionRepository_FindPendingForVoting() {
	ctx := context.Background()

	// 他人的已审核提交
	other := CreateTestSubmission(suite.users[1].ID, "sub-other", "prompt-001")
	other.ModerationStatus = models.ModerationApproved
	err := suite.repo.Create(ctx, other)
	assert.NoError(suite.T(), err)

	// 本人的已审核提交
	own := CreateTestSubmission(suite.users[0].ID, "sub-own", "prompt-001")
	own.ModerationStatus = models.ModerationApproved
	err = suite.repo.Create(ctx, own)
	assert.NoError(suite.T(), err)

	// 他人的待审核提交（不应出现）
	pending := CreateTestSubmission(suite.users[1].ID, "sub-pending", "prompt-001")
	err = suite.repo.Create(ctx, pending)
	assert.NoError(suite.T(), err)

	results, err := suite.repo.FindPendingForVoting(ctx, suite.users[0].ID, 10)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 1)
	assert.Equal(suite.T(), "sub-other", results[0].SubmissionID)
}

// TestSubmissionRepository_MarkVerified 测试社区验证标记
func (suite *SubmissionRepositoryTestSuite) TestSubmissionRepository_MarkVerified() {
	ctx := context.Background()

	submission := CreateTestSubmission(suite.users[0].ID, "sub-004", "prompt-001")
	submission.ModerationStatus = models.ModerationApproved
	err := suite.repo.Create(ctx, submission)
	assert.NoError(suite.T(), err)

	err = suite.repo.MarkVerified(ctx, "sub-004")
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindBySubmissionID(ctx, "sub-004")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), found.IsVerified)
}

// TestSubmissionRepository_FindByUserID 测试分页查询提交历史
func (suite *SubmissionRepositoryTestSuite) TestSubmissionRepository_FindByUserID() {
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		submission := CreateTestSubmission(suite.users[0].ID, "sub-page-"+string(rune('a'+i)), "prompt-001")
		err := suite.repo.Create(ctx, submission)
		assert.NoError(suite.T(), err)
	}

	pagination := NewPagination(1, 3)
	results, err := suite.repo.FindByUserID(ctx, suite.users[0].ID, pagination)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 3)
	assert.Equal(suite.T(), int64(5), pagination.Total)

	count, err := suite.repo.CountByUser(ctx, suite.users[0].ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(5), count)
}

// TestSubmissionRepositorySuite 运行测试套件
func TestSubmissionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SubmissionRepositoryTestSuite))
}
