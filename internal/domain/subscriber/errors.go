package subscriber

import "errors"

var (
	ErrNotFound        = errors.New("subscriber not found")
	ErrDuplicateChatID = errors.New("subscriber with this chat ID already exists")
)
