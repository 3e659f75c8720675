package users

type UsageResponse struct {
	Tier             string `json:"tier"`             // "free" or "premium"
	Today            int    `json:"today"`            // generations used today
	Limit            int    `json:"limit"`            // daily limit for the tier
	Remaining        int    `json:"remaining"`        // generations left today
	TotalGenerations int64  `json:"totalGenerations"` // lifetime count
	XP               int64  `json:"xp"`
	Date             string `json:"date"` // format: "2006-01-02", UTC
}
