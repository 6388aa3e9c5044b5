package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status: "error",
		Error:  "invalid_request",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrPostNotFound = ErrorResponse{
		Status: "error",
		Error:  "post_not_found",
	}

	// ErrStoreUnavailable covers every failed write or fetch against the
	// backing store: the caller's state is unchanged and retrying the
	// action is the only recourse.
	ErrStoreUnavailable = ErrorResponse{
		Status:  "error",
		Error:   "store_unavailable",
		Details: "Database update failed. Check connection.",
	}

	ErrRelayUnavailable = ErrorResponse{
		Status: "error",
		Error:  "relay_unavailable",
	}

	ErrDuplicateSubmission = ErrorResponse{
		Status: "error",
		Error:  "duplicate_submission",
	}
)
