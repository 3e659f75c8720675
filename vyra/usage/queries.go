package usage

const (
	queryGetUsage = `
		SELECT id, tier, daily_generation_count, last_generation_date, total_generations, xp, updated_at
		FROM users
		WHERE id = $1
	`

	queryEnsureUser = `
		INSERT INTO users (id)
		VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`

	queryLockUsage = `
		SELECT id, tier, daily_generation_count, last_generation_date, total_generations, xp, updated_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`

	// tier is owned by billing and never written here
	queryPutUsage = `
		UPDATE users
		SET daily_generation_count = $2,
			last_generation_date = $3,
			total_generations = $4,
			xp = $5,
			updated_at = NOW()
		WHERE id = $1
	`
)
