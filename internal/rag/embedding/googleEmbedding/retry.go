package googleEmbedding

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// isRetryable reports whether the failed call is worth repeating: quota
// exhaustion and transient unavailability are, malformed requests are not.
func isRetryable(err error) bool {
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded:
			return true
		}
	}
	return false
}
