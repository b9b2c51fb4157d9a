package constants

// Field limits shared by ingestion validation, the enrichment gateway, and the store.
const (
	// MaxStarStories and MaxMetrics cap the enrichment slots per role.
	MaxStarStories = 3
	MaxMetrics     = 3

	// MaxLastErrorLength bounds the diagnostic stored on jobs.last_error.
	MaxLastErrorLength = 500

	// MaxStoryLength bounds a single STAR story as requested from the model.
	MaxStoryLength = 280

	// MaxDescriptionLength bounds a role description accepted at ingestion.
	MaxDescriptionLength = 8000
)
