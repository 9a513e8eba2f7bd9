package game

import (
	"sync"

	"go.uber.org/zap"
)

// Engine 游戏状态引擎：单个玩家会话状态的唯一持有者。
// 所有消费者通过Dispatch提交动作、通过Snapshot读取快照，
// 不直接修改状态。
type Engine struct {
	mu        sync.RWMutex
	state     State
	randomGen RandomGenerator
	logger    *zap.Logger
}

// EngineOption 引擎选项
type EngineOption func(*Engine)

// WithRandomGenerator 注入随机数生成器
func WithRandomGenerator(gen RandomGenerator) EngineOption {
	return func(e *Engine) {
		e.randomGen = gen
	}
}

// WithLogger 注入日志器
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine 创建游戏状态引擎
func NewEngine(initial State, opts ...EngineOption) *Engine {
	engine := &Engine{
		state:     initial.Clone(),
		randomGen: NewCryptoRandomGenerator(),
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// Dispatch 提交一个动作，原子地应用并返回新状态快照
func (e *Engine) Dispatch(action Action) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = Apply(e.state, action)

	e.logger.Debug("动作已应用",
		zap.String("action", ActionName(action)),
		zap.Int("level", e.state.Player.Level),
		zap.Int("xp", e.state.Player.XP),
		zap.Int("chips", e.state.Player.Chips),
	)

	return e.state.Clone()
}

// Snapshot 返回当前状态的只读快照
func (e *Engine) Snapshot() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// Random 返回引擎持有的随机数生成器
func (e *Engine) Random() RandomGenerator {
	return e.randomGen
}

// RandomPrompt 从目录中随机抽取一个挑战
func (e *Engine) RandomPrompt(catalog []PromptData) *PromptData {
	if len(catalog) == 0 {
		return nil
	}
	prompt := catalog[e.randomGen.NextInt(0, len(catalog))]
	return &prompt
}
