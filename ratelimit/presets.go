package ratelimit

import "time"

// Preset is a named (limit, window) pair selected by call site.
type Preset struct {
	// Name identifies the preset in logs and endpoint labels.
	Name string

	// Limit is the maximum number of requests per window.
	Limit int

	// Window is the fixed window size.
	Window time.Duration
}

// Named presets. Strict covers mutating/expensive endpoints, Generous
// covers cheap/test endpoints, AIAnalysis budgets generative-AI analysis
// per user.
var (
	Strict   = Preset{Name: "strict", Limit: 10, Window: time.Minute}
	Generous = Preset{Name: "generous", Limit: 100, Window: time.Minute}

	AIAnalysis = Preset{Name: "ai-analysis", Limit: 10, Window: time.Hour}
)

// Request builds a check request for this preset.
func (p Preset) Request(identifier string) Request {
	return Request{
		Identifier: identifier,
		Endpoint:   p.Name,
		Limit:      p.Limit,
		Window:     p.Window,
	}
}
