package generate

// Request represents the request body for image generation
type Request struct {
	Prompt    string `json:"prompt"`
	Style     string `json:"style"`
	IsPremium bool   `json:"isPremium"` // honored only when the server trusts client tiers
}

// Response represents a successful image generation
type Response struct {
	Success         bool   `json:"success"`
	ImageURL        string `json:"imageUrl"`
	OptimizedPrompt string `json:"optimizedPrompt"`
}
