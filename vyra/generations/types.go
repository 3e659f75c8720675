package generations

import "time"

// one successful generation; immutable once written
type Record struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	OriginalPrompt  string    `json:"original_prompt"`
	OptimizedPrompt string    `json:"optimized_prompt"`
	Style           string    `json:"style"`
	ImageURL        string    `json:"image_url"`
	IsPublic        bool      `json:"is_public"`
	CreatedAt       time.Time `json:"created_at"`
}

// fields supplied by the caller; id, timestamp and visibility are assigned by the store
type Draft struct {
	UserID          string
	OriginalPrompt  string
	OptimizedPrompt string
	Style           string
	ImageURL        string
}

// returns the stored record for d
func (d Draft) Record(id string, createdAt time.Time) Record {
	return Record{
		ID:              id,
		UserID:          d.UserID,
		OriginalPrompt:  d.OriginalPrompt,
		OptimizedPrompt: d.OptimizedPrompt,
		Style:           d.Style,
		ImageURL:        d.ImageURL,
		IsPublic:        false,
		CreatedAt:       createdAt,
	}
}
