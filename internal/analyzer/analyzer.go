package analyzer

import (
	"context"
	"time"

	"github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/SphoenixAI/image-verse-quest/internal/game"
	"go.uber.org/zap"
)

// Result 一次图片评估的完整输出
type Result struct {
	Analysis        game.Analysis          `json:"analysis"`
	IsAppropriate   bool                   `json:"isAppropriate"`
	IsRelevant      bool                   `json:"isRelevant"`
	IsHighQuality   bool                   `json:"isHighQuality"`
	ModerationScore float64                `json:"moderationScore"` // [0, 0.3)，越低越好
	ModerationFlags map[string]interface{} `json:"moderationFlags"`
}

// Analyzer 模拟图片评估服务。真实视觉推理接入时替换内部实现，
// Evaluate契约保持不变。
type Analyzer struct {
	randomGen  game.RandomGenerator
	minLatency time.Duration
	maxLatency time.Duration
	logger     *zap.Logger
}

// Option 评估服务选项
type Option func(*Analyzer)

// WithRandomGenerator 注入随机数生成器（测试时可强制确定性输出）
func WithRandomGenerator(gen game.RandomGenerator) Option {
	return func(a *Analyzer) {
		a.randomGen = gen
	}
}

// WithLatency 设置模拟延迟范围
func WithLatency(min, max time.Duration) Option {
	return func(a *Analyzer) {
		a.minLatency = min
		a.maxLatency = max
	}
}

// WithLogger 注入日志器
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// New 创建图片评估服务
func New(opts ...Option) *Analyzer {
	analyzer := &Analyzer{
		randomGen:  game.NewCryptoRandomGenerator(),
		minLatency: 0,
		maxLatency: 1500 * time.Millisecond,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(analyzer)
	}

	return analyzer
}

// Evaluate 对图片执行模拟分析与审核。
// 延迟有界且可被ctx取消，永不无限阻塞。
func (a *Analyzer) Evaluate(ctx context.Context, imageURL, promptText string) (*Result, error) {
	if imageURL == "" {
		return nil, errors.New(errors.ErrMissingImageURL)
	}
	if promptText == "" {
		return nil, errors.New(errors.ErrMissingPrompt)
	}

	start := time.Now()

	// 模拟推理延迟，支持处理中的UI状态
	if err := a.simulateLatency(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrAnalyzeTimeout)
	}

	analysis := game.Analysis{
		Objects:         generateObjects(a.randomGen, promptText),
		Text:            generateText(a.randomGen, promptText),
		Faces:           countFaces(a.randomGen, promptText),
		Animals:         generateAnimals(a.randomGen, promptText),
		MatchConfidence: matchConfidence(a.randomGen, promptText),
	}

	result := &Result{
		Analysis:        analysis,
		IsAppropriate:   true, // 占位实现不做有害内容检测，真实接入时必须替换
		IsRelevant:      analysis.MatchConfidence > 0.6,
		IsHighQuality:   a.randomGen.Next() > 0.2, // 80%概率判定高质量
		ModerationScore: a.randomGen.Next() * 0.3,
		ModerationFlags: map[string]interface{}{},
	}

	a.logger.Debug("图片评估完成",
		zap.String("image_url", imageURL),
		zap.String("prompt_text", promptText),
		zap.Float64("match_confidence", result.Analysis.MatchConfidence),
		zap.Bool("is_relevant", result.IsRelevant),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// simulateLatency 在配置的延迟区间内随机等待，可被ctx打断
func (a *Analyzer) simulateLatency(ctx context.Context) error {
	latency := a.minLatency
	if a.maxLatency > a.minLatency {
		spread := a.maxLatency - a.minLatency
		latency += time.Duration(a.randomGen.Next() * float64(spread))
	}

	if latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
