package exception

import "errors"

var (
	ErrDuplicatePendingRequest = errors.New("a pending request of this kind already exists on the session")
	ErrAlreadyResolved         = errors.New("exception request has already been resolved")
	ErrUnauthorizedApprover    = errors.New("approver lacks approval capability for this session")
	ErrRequestNotFound         = errors.New("exception request not found")
)
