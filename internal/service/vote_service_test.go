package service

import (
	"context"
	"testing"

	apperrors "github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// VoteServiceTestSuite 社区投票服务测试套件
type VoteServiceTestSuite struct {
	suite.Suite
	env *serviceTestEnv

	ownerID      uint
	submissionID string
}

// SetupTest 每个测试前重建环境并准备一条待投票提交
func (suite *VoteServiceTestSuite) SetupTest() {
	suite.env = newServiceTestEnv(suite.T())

	owner := suite.env.register(suite.T(), "owner")
	suite.ownerID = owner.User.ID

	result, err := suite.env.services.Submission.Submit(context.Background(), &SubmitImageRequest{
		UserID:   suite.ownerID,
		PromptID: "prompt-001",
		ImageURL: "https://example.com/drink.jpg",
	})
	assert.NoError(suite.T(), err)
	suite.submissionID = result.Submission.SubmissionID
}

// TestCast 测试投票计数与投票人统计
func (suite *VoteServiceTestSuite) TestCast() {
	ctx := context.Background()
	voter := suite.env.register(suite.T(), "voter1")

	result, err := suite.env.services.Vote.Cast(ctx, &CastVoteRequest{
		UserID:      voter.User.ID,
		ImageID:     suite.submissionID,
		IsAuthentic: true,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.AuthenticVotes)
	assert.Equal(suite.T(), 0, result.FakeVotes)
	assert.False(suite.T(), result.Verified)

	// 投票人的引擎统计推进
	state, err := suite.env.services.Player.GetState(ctx, voter.User.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, state.Player.Stats.TotalVotes)
	// 与多数一致，记准确投票并发经验
	assert.Equal(suite.T(), 1, state.Player.Stats.AccurateVotes)
	assert.Equal(suite.T(), 10, state.Player.XP)

	assert.True(suite.T(), suite.env.events.has("vote.cast"))
}

// TestCastDuplicate 测试重复投票被唯一约束拦截
func (suite *VoteServiceTestSuite) TestCastDuplicate() {
	ctx := context.Background()
	voter := suite.env.register(suite.T(), "voter1")

	_, err := suite.env.services.Vote.Cast(ctx, &CastVoteRequest{
		UserID:      voter.User.ID,
		ImageID:     suite.submissionID,
		IsAuthentic: true,
	})
	assert.NoError(suite.T(), err)

	// 换个方向也不行
	_, err = suite.env.services.Vote.Cast(ctx, &CastVoteRequest{
		UserID:      voter.User.ID,
		ImageID:     suite.submissionID,
		IsAuthentic: false,
	})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrAlreadyVoted))

	voted, err := suite.env.services.Vote.HasVoted(ctx, voter.User.ID, suite.submissionID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), voted)
}

// TestCastReachesVerification 测试达到阈值后标记社区验证
func (suite *VoteServiceTestSuite) TestCastReachesVerification() {
	ctx := context.Background()
	voter1 := suite.env.register(suite.T(), "voter1")
	voter2 := suite.env.register(suite.T(), "voter2")

	result, err := suite.env.services.Vote.Cast(ctx, &CastVoteRequest{
		UserID:      voter1.User.ID,
		ImageID:     suite.submissionID,
		IsAuthentic: true,
	})
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Verified)

	// 阈值为2，第二张真票触发验证
	result, err = suite.env.services.Vote.Cast(ctx, &CastVoteRequest{
		UserID:      voter2.User.ID,
		ImageID:     suite.submissionID,
		IsAuthentic: true,
	})
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Verified)
	assert.Equal(suite.T(), 2, result.AuthenticVotes)

	assert.True(suite.T(), suite.env.events.has("submission.verified"))
}

// TestCastMissingImage 测试投票目标不存在时统计照常推进
func (suite *VoteServiceTestSuite) TestCastMissingImage() {
	ctx := context.Background()
	voter := suite.env.register(suite.T(), "voter1")

	result, err := suite.env.services.Vote.Cast(ctx, &CastVoteRequest{
		UserID:      voter.User.ID,
		ImageID:     "no-such-image",
		IsAuthentic: false,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result.AuthenticVotes)
	assert.Equal(suite.T(), 0, result.FakeVotes)

	state, err := suite.env.services.Player.GetState(ctx, voter.User.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, state.Player.Stats.TotalVotes)
}

// TestQueue 测试投票队列排除本人与已投提交
func (suite *VoteServiceTestSuite) TestQueue() {
	ctx := context.Background()
	voter := suite.env.register(suite.T(), "voter1")

	// 提交人自己的队列不含自己的提交
	queue, err := suite.env.services.Vote.Queue(ctx, suite.ownerID, 10)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), queue)

	queue, err = suite.env.services.Vote.Queue(ctx, voter.User.ID, 10)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), queue, 1)

	// 投过之后从队列消失
	_, err = suite.env.services.Vote.Cast(ctx, &CastVoteRequest{
		UserID:      voter.User.ID,
		ImageID:     suite.submissionID,
		IsAuthentic: true,
	})
	assert.NoError(suite.T(), err)

	queue, err = suite.env.services.Vote.Queue(ctx, voter.User.ID, 10)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), queue)
}

// TestVoteServiceTestSuite 运行社区投票服务测试套件
func TestVoteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoteServiceTestSuite))
}
