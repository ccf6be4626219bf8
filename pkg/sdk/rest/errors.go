package rest

import "fmt"

// TransportError means the request never produced a response: dial
// failure, timeout, cancelled context.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response whose envelope carried a cause.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ProtocolError means the response body was not a valid envelope.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// UserMessage extracts the human-readable cause from an error for
// display. API errors surface their envelope message; everything else
// falls back to the error string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := err.(*APIError); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
