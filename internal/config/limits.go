package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxProjectNameLength = 255

	// MaxRequirementTitleLength is the maximum length for requirement titles.
	// Same bound as project names for consistency.
	MaxRequirementTitleLength = 255

	// MaxCollectionNameLength is the maximum length for collection names.
	MaxCollectionNameLength = 255

	// MaxDocTitleLength is the maximum length for external document titles.
	MaxDocTitleLength = 255

	// MaxURLLength is the maximum length for external document URLs.
	// 2000 is the practical de-facto browser limit.
	MaxURLLength = 2000

	// MaxDisplayNameLength is the maximum length for profile display names.
	MaxDisplayNameLength = 120
)
