package exception

import "context"

// Service manages the exception approval workflow.
type Service interface {
	// RequestException files a new request against a session. When the
	// requester holds a privileged role and auto-approval is enabled, the
	// request is created and resolved as approved in the same operation.
	RequestException(ctx context.Context, req CreateRequest) (RequestResponse, error)

	// ResolveException moves a pending request to approved or rejected.
	ResolveException(ctx context.Context, req ResolveRequest) (RequestResponse, error)

	// ListExceptions returns the requests filed against a session.
	ListExceptions(ctx context.Context, sessionID string) ([]RequestResponse, error)
}
