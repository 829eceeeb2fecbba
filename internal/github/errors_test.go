package github

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-github/v66/github"
)

func apiError(status int, message string, fieldErrs ...github.Error) *github.ErrorResponse {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status},
		Message:  message,
		Errors:   fieldErrs,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(t *testing.T, got error)
	}{
		{
			name: "nil stays nil",
			err:  nil,
			check: func(t *testing.T, got error) {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
			},
		},
		{
			name: "404 becomes NotFoundError",
			err:  apiError(404, "Not Found"),
			check: func(t *testing.T, got error) {
				if !IsNotFound(got) {
					t.Fatalf("expected NotFoundError, got %T: %v", got, got)
				}
			},
		},
		{
			name: "422 becomes ValidationError with rejected fields",
			err: apiError(422, "Validation Failed",
				github.Error{Field: "required_approving_review_count", Code: "invalid"}),
			check: func(t *testing.T, got error) {
				var ve *ValidationError
				if !errors.As(got, &ve) {
					t.Fatalf("expected ValidationError, got %T: %v", got, got)
				}
				if len(ve.Fields) != 1 || ve.Fields[0] != "required_approving_review_count" {
					t.Errorf("unexpected fields: %v", ve.Fields)
				}
			},
		},
		{
			name: "5xx becomes TransportError",
			err:  apiError(502, "Bad Gateway"),
			check: func(t *testing.T, got error) {
				if !IsTransport(got) {
					t.Fatalf("expected TransportError, got %T: %v", got, got)
				}
			},
		},
		{
			name: "rate limit becomes TransportError",
			err:  &github.RateLimitError{Response: &http.Response{StatusCode: 403}},
			check: func(t *testing.T, got error) {
				if !IsTransport(got) {
					t.Fatalf("expected TransportError, got %T: %v", got, got)
				}
			},
		},
		{
			name: "network failure becomes TransportError",
			err:  &url.Error{Op: "Get", URL: "https://api.github.com", Err: errors.New("dial tcp: i/o timeout")},
			check: func(t *testing.T, got error) {
				if !IsTransport(got) {
					t.Fatalf("expected TransportError, got %T: %v", got, got)
				}
			},
		},
		{
			name: "other statuses pass through wrapped",
			err:  apiError(409, "Conflict"),
			check: func(t *testing.T, got error) {
				if IsNotFound(got) || IsValidation(got) || IsTransport(got) {
					t.Fatalf("should not classify 409, got %T", got)
				}
				var ghErr *github.ErrorResponse
				if !errors.As(got, &ghErr) {
					t.Fatalf("original error not preserved: %v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Classify(tt.err, "branch acme/repo:main"))
		})
	}
}

func TestClassify_PreservesResourceContext(t *testing.T) {
	got := Classify(apiError(404, "Not Found"), "branch acme/widgets:release")
	if want := "branch acme/widgets:release not found"; got.Error() != want {
		t.Errorf("Error() = %q, want %q", got.Error(), want)
	}
}

func TestIsBranchNotProtected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"branch not protected 404", apiError(404, "Branch not protected"), true},
		{"case-insensitive match", apiError(404, "branch not protected"), true},
		{"plain 404", apiError(404, "Not Found"), false},
		{"wrapped", fmt.Errorf("remove: %w", apiError(404, "Branch not protected")), true},
		{"non-github error", errors.New("Branch not protected"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBranchNotProtected(tt.err); got != tt.want {
				t.Errorf("IsBranchNotProtected = %v, want %v", got, tt.want)
			}
		})
	}
}
