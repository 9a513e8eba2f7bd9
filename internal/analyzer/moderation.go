package analyzer

// ModerationPolicy 审核准入策略：决定哪些标志会阻止提交
type ModerationPolicy string

const (
	// PolicyAppropriateOnly 仅要求内容合规（当前默认行为）
	PolicyAppropriateOnly ModerationPolicy = "appropriate_only"
	// PolicyRequireRelevant 额外要求图片与挑战相关
	PolicyRequireRelevant ModerationPolicy = "require_relevant"
	// PolicyStrict 要求合规、相关且高质量
	PolicyStrict ModerationPolicy = "strict"
)

// ParseModerationPolicy 解析策略字符串，未知值回退到默认策略
func ParseModerationPolicy(s string) ModerationPolicy {
	switch ModerationPolicy(s) {
	case PolicyRequireRelevant:
		return PolicyRequireRelevant
	case PolicyStrict:
		return PolicyStrict
	default:
		return PolicyAppropriateOnly
	}
}

// Accepts 按策略判断评估结果是否可被接受
func (p ModerationPolicy) Accepts(result *Result) bool {
	if result == nil {
		return false
	}

	switch p {
	case PolicyRequireRelevant:
		return result.IsAppropriate && result.IsRelevant
	case PolicyStrict:
		return result.IsAppropriate && result.IsRelevant && result.IsHighQuality
	default:
		return result.IsAppropriate
	}
}
