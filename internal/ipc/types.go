package ipc

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse reports daemon and decision-loop state.
type StatusResponse struct {
	Running              bool   `json:"running"`
	PID                  int    `json:"pid"`
	SessionID            string `json:"session_id"`
	DeviceAddress        string `json:"device_address"`
	AutoConnect          bool   `json:"auto_connect"`
	IdleTimeoutSeconds   int64  `json:"idle_timeout_seconds"`
	SecondsSinceActivity int64  `json:"seconds_since_activity"`
	ConsecutiveErrors    int    `json:"consecutive_errors"`
	ConnectsIssued       int64  `json:"connects_issued"`
	DisconnectsIssued    int64  `json:"disconnects_issued"`
	PolicyPath           string `json:"policy_path"`
	JournalPath          string `json:"journal_path"`
	LockPath             string `json:"lock_path"`
}

// PolicyRequest fetches the current and backup policy snapshots.
type PolicyRequest struct{}

// PolicySnapshot mirrors one policy value on the wire.
type PolicySnapshot struct {
	InactivityTimeoutSeconds int64  `json:"inactivity_timeout_seconds"`
	AutoConnect              bool   `json:"auto_connect"`
	DeviceAddress            string `json:"device_address"`
}

// PolicyResponse carries the live policy pair.
type PolicyResponse struct {
	Current PolicySnapshot `json:"current"`
	Backup  PolicySnapshot `json:"backup"`
}

// EventsRequest fetches recent journal events.
type EventsRequest struct {
	Limit int `json:"limit"`
}

// EventRecord mirrors one journal row on the wire.
type EventRecord struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Device    string `json:"device"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

// EventsResponse contains recent journal events, newest first.
type EventsResponse struct {
	Events []EventRecord `json:"events"`
}
