package api

import "errors"

var (
	errMissingConversationID = errors.New("conversation.id is required")
	errEmptyBatch            = errors.New("conversations must not be empty")
)
