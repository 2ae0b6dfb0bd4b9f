package constants

const (
	// public URL
	PUBLIC_URL = "https://wedding.codingcraftz.com"

	GUESTBOOK_PAGE_SIZE     = 3
	MIN_SECRET_LENGTH       = 4
	MAX_SECRET_BYTES        = 72
	MAX_AUTHOR_LENGTH       = 40
	MAX_MESSAGE_LENGTH      = 2500
	MAX_API_PAGE_SIZE       = 50
	VISITOR_COOKIE_NAME     = "wedding_visitor"
	AUDIO_INTERACTED_KEY    = "weddingMusicInteracted"
	DEFAULT_REVEAL_FALLBACK = 1000 // milliseconds
)
