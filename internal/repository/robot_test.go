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

// RobotRepositoryTestSuite 机器人仓储测试套件
type RobotRepositoryTestSuite struct {
	suite.Suite
	db        *gorm.DB
	partRepo  RobotPartRepository
	robotRepo RobotRepository
	users     []models.User
}

func (suite *RobotRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.partRepo = NewRobotPartRepository(suite.db)
	suite.robotRepo = NewRobotRepository(suite.db)
	suite.users = SeedTestUsers(suite.T(), suite.db)
}

func (suite *RobotRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestRobotPartRepository_CreateAndList 测试部件入库与列表
func (suite *RobotRepositoryTestSuite) TestRobotPartRepository_CreateAndList() {
	ctx := context.Background()

	parts := []*models.RobotPart{
		CreateTestPart(suite.users[0].ID, "part-001", "head", "common"),
		CreateTestPart(suite.users[0].ID, "part-002", "torso", "rare"),
		CreateTestPart(suite.users[1].ID, "part-003", "legs", "common"),
	}
	for _, p := range parts {
		err := suite.partRepo.Create(ctx, p)
		assert.NoError(suite.T(), err)
	}

	found, err := suite.partRepo.FindByUserID(ctx, suite.users[0].ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), found, 2)

	count, err := suite.partRepo.CountByUser(ctx, suite.users[0].ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), count)

	rareCount, err := suite.partRepo.CountByRarity(ctx, suite.users[0].ID, "rare")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), rareCount)

	part, err := suite.partRepo.FindByPartID(ctx, suite.users[0].ID, "part-002")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "torso", part.Type)

	// 他人的部件对本人不可见
	_, err = suite.partRepo.FindByPartID(ctx, suite.users[0].ID, "part-003")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "部件不存在")
}

// TestRobotRepository_CreateAndFind 测试机器人组装快照
func (suite *RobotRepositoryTestSuite) TestRobotRepository_CreateAndFind() {
	ctx := context.Background()

	robot := &models.Robot{
		RobotID:     "robot-001",
		UserID:      suite.users[0].ID,
		Name:        "Scout Mk I",
		AssembledAt: time.Now(),
		Parts: models.JSONMap{
			"head":  map[string]interface{}{"partId": "part-001", "name": "测试头部"},
			"torso": map[string]interface{}{"partId": "part-002", "name": "测试躯干"},
		},
		TotalPower:        20,
		TotalAgility:      10,
		TotalIntelligence: 6,
	}
	err := suite.robotRepo.Create(ctx, robot)
	assert.NoError(suite.T(), err)

	found, err := suite.robotRepo.FindByRobotID(ctx, suite.users[0].ID, "robot-001")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Scout Mk I", found.Name)
	assert.Equal(suite.T(), 20, found.TotalPower)

	// JSON快照往返后保留部件结构
	assert.Contains(suite.T(), found.Parts, "head")
	assert.Contains(suite.T(), found.Parts, "torso")

	robots, err := suite.robotRepo.FindByUserID(ctx, suite.users[0].ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), robots, 1)

	count, err := suite.robotRepo.CountByUser(ctx, suite.users[0].ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), count)

	_, err = suite.robotRepo.FindByRobotID(ctx, suite.users[1].ID, "robot-001")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "机器人不存在")
}

// TestRobotRepositorySuite 运行测试套件
func TestRobotRepositorySuite(t *testing.T) {
	suite.Run(t, new(RobotRepositoryTestSuite))
}
