package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client connects to the lumen daemon over a Unix socket.
type Client struct {
	sockPath string
}

// NewClient creates a client that will connect to the given socket path.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath}
}

// Activate starts a new search session and returns the default list.
func (c *Client) Activate() (*ActivateResult, error) {
	resp, err := c.call(Request{ID: "1", Method: MethodActivate})
	if err != nil {
		return nil, err
	}
	var result ActivateResult
	if err := decodeParams(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}

// Query sends one query-buffer state and returns the ranked list.
func (c *Client) Query(sessionID, query string) (*QueryResult, error) {
	resp, err := c.call(Request{
		ID:     "1",
		Method: MethodQuery,
		Params: QueryParams{SessionID: sessionID, Query: query},
	})
	if err != nil {
		return nil, err
	}
	var result QueryResult
	if err := decodeParams(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}

// Select confirms a launch selection and dismisses the session.
func (c *Client) Select(sessionID, entryID string) error {
	_, err := c.call(Request{
		ID:     "1",
		Method: MethodSelect,
		Params: SelectParams{SessionID: sessionID, EntryID: entryID},
	})
	return err
}

// Cancel dismisses the session without launching.
func (c *Client) Cancel(sessionID string) error {
	_, err := c.call(Request{
		ID:     "1",
		Method: MethodCancel,
		Params: CancelParams{SessionID: sessionID},
	})
	return err
}

// Stats fetches daemon and usage statistics.
func (c *Client) Stats() (*StatsResult, error) {
	resp, err := c.call(Request{ID: "1", Method: MethodStats})
	if err != nil {
		return nil, err
	}
	var result StatsResult
	if err := decodeParams(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}

// Refresh asks the daemon to re-run discovery, with an extended timeout.
func (c *Client) Refresh() (*RefreshResult, error) {
	resp, err := c.callWithTimeout(Request{ID: "1", Method: MethodRefresh}, 30*time.Second)
	if err != nil {
		return nil, err
	}
	var result RefreshResult
	if err := decodeParams(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}

// Shutdown sends a shutdown request to the daemon.
func (c *Client) Shutdown() error {
	_, err := c.call(Request{ID: "1", Method: MethodShutdown})
	return err
}

// Ping checks if the daemon is reachable.
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (c *Client) call(req Request) (*Response, error) {
	return c.callWithTimeout(req, 5*time.Second)
}

func (c *Client) callWithTimeout(req Request, timeout time.Duration) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return nil, fmt.Errorf("empty response")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("server error: %s", resp.Error)
	}
	return &resp, nil
}
