// Package socket implements a JSON-over-Unix-socket protocol for the
// lumen daemon. The protocol uses newline-delimited JSON: each message is
// one JSON object + \n. This socket IS the UI boundary — frontends send
// activate/query/select/cancel events and render the ranked results that
// come back.
package socket

import (
	"fmt"
	"os"
)

// SocketPath returns the per-user Unix socket path.
func SocketPath() string {
	return fmt.Sprintf("/tmp/lumen-%d.sock", os.Getuid())
}

// Method names for the protocol.
const (
	MethodActivate = "activate"
	MethodQuery    = "query"
	MethodSelect   = "select"
	MethodCancel   = "cancel"
	MethodStats    = "stats"
	MethodRefresh  = "refresh"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ActivateResult is the result of an activate request: a fresh session id
// plus the usage-ordered default list.
type ActivateResult struct {
	SessionID string      `json:"session_id"`
	Results   []ResultRow `json:"results"`
}

// QueryParams carries one query-buffer mutation.
type QueryParams struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// QueryResult is the ranked list for one query state. Generation lets a
// frontend discard responses that arrive after a newer mutation.
type QueryResult struct {
	Query      string      `json:"query"`
	Generation uint64      `json:"generation"`
	Results    []ResultRow `json:"results"`
}

// ResultRow is one ranked entry in wire format. Positions are the matched
// rune indices in Name, for highlight rendering.
type ResultRow struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Positions []int   `json:"positions,omitempty"`
}

// SelectParams confirms a launch selection.
type SelectParams struct {
	SessionID string `json:"session_id"`
	EntryID   string `json:"entry_id"`
}

// CancelParams dismisses a session without launching.
type CancelParams struct {
	SessionID string `json:"session_id"`
}

// StatsResult reports daemon and usage statistics.
type StatsResult struct {
	Entries  int        `json:"entries"`
	Launches uint64     `json:"launches"`
	Uptime   string     `json:"uptime"`
	Top      []StatsRow `json:"top"`
}

// StatsRow is one entry in the most-launched listing.
type StatsRow struct {
	Name        string `json:"name"`
	LaunchCount uint32 `json:"launch_count"`
	LastLaunch  string `json:"last_launch,omitempty"`
}

// RefreshResult reports the outcome of an index refresh.
type RefreshResult struct {
	Entries int `json:"entries"`
}
