package github

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// The sync error taxonomy. Every GitHub API failure is classified into one of
// three fatal categories before it leaves this package:
//
//   - NotFoundError: the repository or branch does not exist (or the token
//     cannot see it, which GitHub reports identically).
//   - ValidationError: the platform rejected one or more field values.
//   - TransportError: network failure, timeout, 5xx, or exhausted rate limit.
//
// All three abort the run. A caller may safely re-invoke the whole run:
// reads are side-effect free and writes are idempotent.

type NotFoundError struct {
	// Resource names what was looked up, e.g. "branch acme/repo:main".
	Resource string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Resource string
	// Fields lists the field names the platform rejected, when it reported them.
	Fields  []string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s rejected by platform (fields: %s): %s", e.Resource, strings.Join(e.Fields, ", "), e.Message)
	}
	return fmt.Sprintf("%s rejected by platform: %s", e.Resource, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type TransportError struct {
	Resource string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure for %s: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsBranchNotProtected reports whether err is GitHub's 404 for a protection
// endpoint on a branch that exists but carries no protection ruleset. This is
// a valid state, not a missing resource: the reader maps it to "unprotected"
// and the writer treats it as a successful no-op when removing protection.
func IsBranchNotProtected(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	if ghErr.Response == nil || ghErr.Response.StatusCode != http.StatusNotFound {
		return false
	}
	return strings.EqualFold(ghErr.Message, "Branch not protected")
}

// Classify maps a go-github error into the sync error taxonomy. The resource
// string names the object the operation addressed (repository, branch, label,
// team) so failures propagate with enough context to log and re-trigger.
//
// "Branch not protected" is deliberately not classified here; callers that
// care about it check IsBranchNotProtected before classifying.
func Classify(err error, resource string) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &TransportError{Resource: resource, Err: err}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &TransportError{Resource: resource, Err: err}
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch code := ghErr.Response.StatusCode; {
		case code == http.StatusNotFound:
			return &NotFoundError{Resource: resource, Err: err}
		case code == http.StatusUnprocessableEntity:
			return &ValidationError{
				Resource: resource,
				Fields:   rejectedFields(ghErr),
				Message:  ghErr.Message,
				Err:      err,
			}
		case code >= http.StatusInternalServerError:
			return &TransportError{Resource: resource, Err: err}
		default:
			return fmt.Errorf("%s: %w", resource, err)
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &TransportError{Resource: resource, Err: err}
	}

	return fmt.Errorf("%s: %w", resource, err)
}

func rejectedFields(ghErr *github.ErrorResponse) []string {
	var fields []string
	for _, e := range ghErr.Errors {
		if e.Field == "" {
			continue
		}
		fields = append(fields, e.Field)
	}
	return fields
}
