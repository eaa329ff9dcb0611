package payments

import "fmt"

// GatewayError is any failure talking to the payment gateway: transport
// errors, non-2xx responses or malformed bodies.
type GatewayError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway: %s: %d %s", e.Op, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("gateway: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway: %s: %s", e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }
