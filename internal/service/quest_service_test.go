package service

import (
	"context"
	"testing"

	apperrors "github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// QuestServiceTestSuite 每日任务服务测试套件
type QuestServiceTestSuite struct {
	suite.Suite
	env    *serviceTestEnv
	userID uint
}

// SetupTest 每个测试前重建环境
func (suite *QuestServiceTestSuite) SetupTest() {
	suite.env = newServiceTestEnv(suite.T())
	suite.userID = suite.env.register(suite.T(), "explorer1").User.ID
}

// TestEnsureDaily 测试当日任务保持不变
func (suite *QuestServiceTestSuite) TestEnsureDaily() {
	ctx := context.Background()

	quests, err := suite.env.services.Quest.EnsureDaily(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), quests, 3)

	ids := make(map[string]bool)
	for _, q := range quests {
		ids[q.QuestID] = true
	}
	assert.True(suite.T(), ids["quest-001"])
	assert.True(suite.T(), ids["quest-002"])
	assert.True(suite.T(), ids["quest-003"])

	// 当日再次调用不轮换
	_, err = suite.env.services.Quest.UpdateProgress(ctx, suite.userID, "quest-001", 2)
	assert.NoError(suite.T(), err)

	quests, err = suite.env.services.Quest.EnsureDaily(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	for _, q := range quests {
		if q.QuestID == "quest-001" {
			assert.Equal(suite.T(), 2, q.Progress)
		}
	}
}

// TestDailyRotation 测试隔日轮换并清零进度
func (suite *QuestServiceTestSuite) TestDailyRotation() {
	ctx := context.Background()

	_, err := suite.env.services.Quest.UpdateProgress(ctx, suite.userID, "quest-001", 2)
	assert.NoError(suite.T(), err)

	// 把任务行回拨到昨天
	err = suite.env.db.Exec(
		"UPDATE quests SET created_at = datetime('now', '-1 day') WHERE user_id = ?",
		suite.userID,
	).Error
	assert.NoError(suite.T(), err)

	quests, err := suite.env.services.Quest.EnsureDaily(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), quests, 3)
	for _, q := range quests {
		assert.Equal(suite.T(), 0, q.Progress)
		assert.False(suite.T(), q.Completed)
	}

	assert.True(suite.T(), suite.env.events.has("quests.rotated"))
}

// TestUpdateProgress 测试进度推进
func (suite *QuestServiceTestSuite) TestUpdateProgress() {
	ctx := context.Background()

	quest, err := suite.env.services.Quest.UpdateProgress(ctx, suite.userID, "quest-002", 3)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, quest.Progress)
	assert.False(suite.T(), quest.Completed)

	_, err = suite.env.services.Quest.UpdateProgress(ctx, suite.userID, "quest-999", 1)
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrQuestNotFound))
}

// TestQuestCompletion 测试首次完成发放任务奖励
func (suite *QuestServiceTestSuite) TestQuestCompletion() {
	ctx := context.Background()

	// 步行任务：走满1000米
	quest, err := suite.env.services.Quest.UpdateProgress(ctx, suite.userID, "quest-003", 1000)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), quest.Completed)

	state, err := suite.env.services.Player.GetState(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 200, state.Player.XP)
	assert.Equal(suite.T(), 115, state.Player.Chips)
	assert.Equal(suite.T(), 1, state.Player.Stats.DailyQuestsCompleted)

	assert.True(suite.T(), suite.env.events.has("quest.completed"))

	// 重复上报完成不再发奖
	_, err = suite.env.services.Quest.UpdateProgress(ctx, suite.userID, "quest-003", 1200)
	assert.NoError(suite.T(), err)

	state, err = suite.env.services.Player.GetState(ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 200, state.Player.XP)
	assert.Equal(suite.T(), 1, state.Player.Stats.DailyQuestsCompleted)
}

// TestQuestServiceTestSuite 运行每日任务服务测试套件
func TestQuestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(QuestServiceTestSuite))
}
