package constants

const (
	ErrorBadRequest  = "Bad Request"
	ErrorInternal    = "Internal Service Error"
	ErrorNotFound    = "Not found"
	ErrorRateLimited = "Too many requests"
	ErrorUnavailable = "Track source unavailable"
)
