package repository

import (
	"context"
	"testing"
	"time"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UserRepositoryTestSuite 用户仓储测试套件
type UserRepositoryTestSuite struct {
	suite.Suite
	db        *gorm.DB
	repo      UserRepository
	authRepo  UserAuthRepository
	sessRepo  UserSessionRepository
	stateRepo PlayerStateRepository
}

func (suite *UserRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewUserRepository(suite.db)
	suite.authRepo = NewUserAuthRepository(suite.db)
	suite.sessRepo = NewUserSessionRepository(suite.db)
	suite.stateRepo = NewPlayerStateRepository(suite.db)
}

func (suite *UserRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestUserRepository_Create 测试创建用户
func (suite *UserRepositoryTestSuite) TestUserRepository_Create() {
	ctx := context.Background()

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Nickname: "Test User",
		Status:   "active",
	}

	err := suite.repo.Create(ctx, user)
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), user.ID)

	// 验证数据
	found, err := suite.repo.FindByID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.Username, found.Username)
	assert.Equal(suite.T(), user.Email, found.Email)
}

// TestUserRepository_FindByUsername 测试根据用户名查找
func (suite *UserRepositoryTestSuite) TestUserRepository_FindByUsername() {
	ctx := context.Background()

	user := &models.User{
		Username: "findbyusername",
		Email:    "findby@example.com",
		Status:   "active",
	}

	err := suite.repo.Create(ctx, user)
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindByUsername(ctx, "findbyusername")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, found.ID)

	// 测试不存在的用户
	_, err = suite.repo.FindByUsername(ctx, "notexist")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "用户不存在")
}

// TestUserRepository_UpdateLastLogin 测试更新最后登录时间
func (suite *UserRepositoryTestSuite) TestUserRepository_UpdateLastLogin() {
	ctx := context.Background()

	user := &models.User{
		Username: "loginuser",
		Email:    "login@example.com",
		Status:   "active",
	}
	err := suite.repo.Create(ctx, user)
	assert.NoError(suite.T(), err)

	err = suite.repo.UpdateLastLogin(ctx, user.ID)
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindByID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), found.LastLoginAt)
}

// TestUserAuthRepository_LoginAttempts 测试登录失败计数
func (suite *UserRepositoryTestSuite) TestUserAuthRepository_LoginAttempts() {
	ctx := context.Background()

	user := &models.User{Username: "authuser", Email: "auth@example.com", Status: "active"}
	err := suite.repo.Create(ctx, user)
	assert.NoError(suite.T(), err)

	auth := &models.UserAuth{
		UserID:   user.ID,
		Password: "$2a$10$hashed",
	}
	err = suite.authRepo.Create(ctx, auth)
	assert.NoError(suite.T(), err)

	// 连续失败两次
	err = suite.authRepo.IncrementLoginAttempts(ctx, user.ID)
	assert.NoError(suite.T(), err)
	err = suite.authRepo.IncrementLoginAttempts(ctx, user.ID)
	assert.NoError(suite.T(), err)

	found, err := suite.authRepo.FindByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, found.LoginAttempts)

	// 重置后清零并解锁
	err = suite.authRepo.ResetLoginAttempts(ctx, user.ID)
	assert.NoError(suite.T(), err)

	found, err = suite.authRepo.FindByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, found.LoginAttempts)
	assert.Nil(suite.T(), found.LockedUntil)
}

// TestUserSessionRepository_Lifecycle 测试会话生命周期
func (suite *UserRepositoryTestSuite) TestUserSessionRepository_Lifecycle() {
	ctx := context.Background()

	user := &models.User{Username: "sessuser", Email: "sess@example.com", Status: "active"}
	err := suite.repo.Create(ctx, user)
	assert.NoError(suite.T(), err)

	session := &models.UserSession{
		UserID:       user.ID,
		SessionID:    "sess-001",
		Token:        "token-001",
		IsOnline:     true,
		LastActiveAt: time.Now(),
		ExpireAt:     time.Now().Add(time.Hour),
	}
	err = suite.sessRepo.Create(ctx, session)
	assert.NoError(suite.T(), err)

	found, err := suite.sessRepo.FindByToken(ctx, "token-001")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, found.UserID)

	active, err := suite.sessRepo.FindActiveByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), active, 1)

	err = suite.sessRepo.Invalidate(ctx, "sess-001")
	assert.NoError(suite.T(), err)

	active, err = suite.sessRepo.FindActiveByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), active, 0)
}

// TestPlayerStateRepository_Upsert 测试玩家进度保存
func (suite *UserRepositoryTestSuite) TestPlayerStateRepository_Upsert() {
	ctx := context.Background()

	user := &models.User{Username: "stateuser", Email: "state@example.com", Status: "active"}
	err := suite.repo.Create(ctx, user)
	assert.NoError(suite.T(), err)

	// 首次保存创建记录
	state := &models.PlayerState{
		UserID:        user.ID,
		Level:         1,
		XP:            0,
		XPToNextLevel: 1000,
		Chips:         100,
	}
	err = suite.stateRepo.Upsert(ctx, state)
	assert.NoError(suite.T(), err)

	found, err := suite.stateRepo.FindByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 100, found.Chips)

	// 再次保存更新同一条记录
	state.Level = 3
	state.Chips = 250
	state.ImagesCollected = 7
	err = suite.stateRepo.Upsert(ctx, state)
	assert.NoError(suite.T(), err)

	found, err = suite.stateRepo.FindByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, found.Level)
	assert.Equal(suite.T(), 250, found.Chips)
	assert.Equal(suite.T(), 7, found.ImagesCollected)

	var count int64
	suite.db.Model(&models.PlayerState{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestPlayerStateRepository_NotFound 测试进度不存在
func (suite *UserRepositoryTestSuite) TestPlayerStateRepository_NotFound() {
	ctx := context.Background()

	_, err := suite.stateRepo.FindByUserID(ctx, 99999)
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

// TestUserRepositorySuite 运行测试套件
func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
