package persistence

type UserRecord struct {
	User string `json:"user"`
	Password string `json:"password,omitempty"`
}

type MessageRecord struct {
	ID string `json:"id"`
	Message string `json:"message"`
	Created int64 `json:"created"`
	Updated int64 `json:"updated"`
}

type Event struct {
	Type string
	User string
	MessageID string
}

//Status abstracts business logic layer from http status codes
//Status must be exported for handler tests
type Status int
const (
	CREATED Status = iota
	ALREADY_EXISTS
	BACKEND_ERROR
	NOT_FOUND
	CORRUPT
	USER_NOT_FOUND
	UPDATED
	OK
	DELETED
)
