package service

import (
	"context"
	"testing"

	apperrors "github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// RobotServiceTestSuite 机器人服务测试套件
type RobotServiceTestSuite struct {
	suite.Suite
	env    *serviceTestEnv
	userID uint
}

// SetupTest 每个测试前重建环境
func (suite *RobotServiceTestSuite) SetupTest() {
	suite.env = newServiceTestEnv(suite.T())
	suite.userID = suite.env.register(suite.T(), "explorer1").User.ID
}

// starterLoadout 初始套装的槽位到部件映射
func starterLoadout() map[string]string {
	return map[string]string{
		"head":      "part-001",
		"torso":     "part-002",
		"arms":      "part-003",
		"legs":      "part-004",
		"accessory": "part-005",
	}
}

// TestInventory 测试部件库存
func (suite *RobotServiceTestSuite) TestInventory() {
	parts, err := suite.env.services.Robot.Inventory(context.Background(), suite.userID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), parts, 5)
}

// TestAssemble 测试组装与属性求和
func (suite *RobotServiceTestSuite) TestAssemble() {
	ctx := context.Background()

	robot, err := suite.env.services.Robot.Assemble(ctx, &AssembleRobotRequest{
		UserID:  suite.userID,
		Name:    "Sentinel X1",
		PartIDs: starterLoadout(),
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Sentinel X1", robot.Name)
	assert.Len(suite.T(), robot.Parts, 5)

	// 初始套装合计属性
	assert.Equal(suite.T(), 75, robot.TotalStats.Power)
	assert.Equal(suite.T(), 45, robot.TotalStats.Agility)
	assert.Equal(suite.T(), 45, robot.TotalStats.Intelligence)

	// 组装后自动设为当前出战
	state, err := suite.env.services.Player.GetState(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), state.Player.CurrentRobot)
	assert.Equal(suite.T(), robot.ID, state.Player.CurrentRobot.ID)
	assert.Equal(suite.T(), 1, state.Player.Stats.RobotsAssembled)

	// 入库并可列出
	robots, err := suite.env.services.Robot.List(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), robots, 1)
	assert.Equal(suite.T(), 75, robots[0].TotalPower)

	assert.True(suite.T(), suite.env.events.has("robot.assembled"))
}

// TestAssembleWithoutAccessory 测试配件槽位可留空
func (suite *RobotServiceTestSuite) TestAssembleWithoutAccessory() {
	loadout := starterLoadout()
	delete(loadout, "accessory")

	robot, err := suite.env.services.Robot.Assemble(context.Background(), &AssembleRobotRequest{
		UserID:  suite.userID,
		Name:    "Scout",
		PartIDs: loadout,
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), robot.Parts, 4)
	assert.Equal(suite.T(), 50, robot.TotalStats.Power)
}

// TestAssembleValidation 测试组装校验
func (suite *RobotServiceTestSuite) TestAssembleValidation() {
	ctx := context.Background()

	// 缺少必需槽位
	loadout := starterLoadout()
	delete(loadout, "head")
	_, err := suite.env.services.Robot.Assemble(ctx, &AssembleRobotRequest{
		UserID:  suite.userID,
		Name:    "Broken",
		PartIDs: loadout,
	})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrInvalidParam))

	// 部件装错槽位
	loadout = starterLoadout()
	loadout["head"] = "part-002"
	_, err = suite.env.services.Robot.Assemble(ctx, &AssembleRobotRequest{
		UserID:  suite.userID,
		Name:    "Mismatched",
		PartIDs: loadout,
	})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrInvalidParam))

	// 不拥有的部件
	loadout = starterLoadout()
	loadout["head"] = "part-999"
	_, err = suite.env.services.Robot.Assemble(ctx, &AssembleRobotRequest{
		UserID:  suite.userID,
		Name:    "Stolen",
		PartIDs: loadout,
	})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrPartNotFound))

	// 未知槽位
	loadout = starterLoadout()
	loadout["tail"] = "part-001"
	_, err = suite.env.services.Robot.Assemble(ctx, &AssembleRobotRequest{
		UserID:  suite.userID,
		Name:    "Weird",
		PartIDs: loadout,
	})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrInvalidParam))
}

// TestSetCurrent 测试切换当前机器人
func (suite *RobotServiceTestSuite) TestSetCurrent() {
	ctx := context.Background()

	first, err := suite.env.services.Robot.Assemble(ctx, &AssembleRobotRequest{
		UserID:  suite.userID,
		Name:    "Alpha",
		PartIDs: starterLoadout(),
	})
	assert.NoError(suite.T(), err)

	second, err := suite.env.services.Robot.Assemble(ctx, &AssembleRobotRequest{
		UserID:  suite.userID,
		Name:    "Beta",
		PartIDs: starterLoadout(),
	})
	assert.NoError(suite.T(), err)

	// 最新组装的是当前出战，切回第一台
	err = suite.env.services.Robot.SetCurrent(ctx, suite.userID, first.ID)
	assert.NoError(suite.T(), err)

	state, err := suite.env.services.Player.GetState(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), first.ID, state.Player.CurrentRobot.ID)
	assert.NotEqual(suite.T(), second.ID, state.Player.CurrentRobot.ID)
	assert.Equal(suite.T(), 2, state.Player.Stats.RobotsAssembled)

	err = suite.env.services.Robot.SetCurrent(ctx, suite.userID, "robot-missing")
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrRobotNotFound))
}

// 组装机器人不可变：同一部件可重复用于多台机器人
func (suite *RobotServiceTestSuite) TestPartsReusable() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := suite.env.services.Robot.Assemble(ctx, &AssembleRobotRequest{
			UserID:  suite.userID,
			Name:    "Clone",
			PartIDs: starterLoadout(),
		})
		assert.NoError(suite.T(), err)
	}

	robots, err := suite.env.services.Robot.List(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), robots, 3)

	// 部件库存不因组装减少
	parts, err := suite.env.services.Robot.Inventory(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), parts, 5)
}

// TestRobotServiceTestSuite 运行机器人服务测试套件
func TestRobotServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RobotServiceTestSuite))
}
