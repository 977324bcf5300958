package handler

const (
	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// IDParam is the route parameter holding a numeric record id.
	IDParam = "id"

	// ErrNilRCSFatalLogMsg is used if router or cfg or store var pointer is nil.
	ErrNilRCSFatalLogMsg = "router, cfg or store is nil"
)
