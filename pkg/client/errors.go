package client

import "fmt"

type Error struct {
	StatusCode int
	Body       []byte
	Err        error
	Retries    int
	Method     string
	URL        string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[HTTP] %s %s: status=%d, err=%v", e.Method, e.URL, e.StatusCode, e.Err)
	if len(e.Body) > 0 {
		msg += fmt.Sprintf(", body=%s", string(e.Body))
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
