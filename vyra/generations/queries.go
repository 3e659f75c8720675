package generations

const (
	queryInsert = `
		INSERT INTO generations (user_id, original_prompt, optimized_prompt, style, image_url, is_public)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id, created_at
	`

	queryListByUser = `
		SELECT id, user_id, original_prompt, optimized_prompt, style, image_url, is_public, created_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	queryCountByUser = `
		SELECT COUNT(*) FROM generations WHERE user_id = $1
	`
)
