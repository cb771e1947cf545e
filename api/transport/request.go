package transport

// LoginRequest identifies the user signing in. TTL is in seconds.
type LoginRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

// TaskCreateRequest mirrors the add-task form: title plus optional planning
// and outdoor fields. Defaulted flags (completed, important) are not accepted.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	IsOutdoor   bool   `json:"is_outdoor"`
	Location    string `json:"location"`
}

type CompletedRequest struct {
	Completed bool `json:"completed"`
}

type ImportantRequest struct {
	Important bool `json:"important"`
}

type ReminderRequest struct {
	ReminderDate string `json:"reminder_date"`
}

// AssignRequest carries the requested assignee. The server always assigns to
// the session's own user; the field is accepted for interface compatibility.
type AssignRequest struct {
	UserID string `json:"user_id"`
}
