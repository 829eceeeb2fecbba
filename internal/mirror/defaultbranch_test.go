package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	gh "repomirror/internal/github"
)

func TestDefaultBranchSyncer_Sync(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/repos/acme/source", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"default_branch": "main"}`)
	})

	var edited string
	mux.HandleFunc("/repos/acme/dest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			var body struct {
				DefaultBranch string `json:"default_branch"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("bad body: %v", err)
			}
			edited = body.DefaultBranch
			fmt.Fprintf(w, `{"default_branch": %q}`, body.DefaultBranch)
			return
		}
		fmt.Fprint(w, `{"default_branch": "master"}`)
	})

	syncer := NewDefaultBranchSyncer(testClient(t, server))
	branch, err := syncer.Sync(context.Background(), RepoRef{"acme", "source"}, RepoRef{"acme", "dest"})
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if branch != "main" {
		t.Errorf("branch = %q, want main", branch)
	}
	if edited != "main" {
		t.Errorf("destination edited to %q, want main", edited)
	}
}

func TestDefaultBranchSyncer_Sync_AlreadyMatching(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/repos/acme/source", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"default_branch": "main"}`)
	})
	mux.HandleFunc("/repos/acme/dest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			t.Error("a matching default branch must not be edited")
		}
		fmt.Fprint(w, `{"default_branch": "main"}`)
	})

	syncer := NewDefaultBranchSyncer(testClient(t, server))
	branch, err := syncer.Sync(context.Background(), RepoRef{"acme", "source"}, RepoRef{"acme", "dest"})
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if branch != "main" {
		t.Errorf("branch = %q, want main", branch)
	}
}

func TestDefaultBranchSyncer_Sync_SourceMissing(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/repos/acme/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	syncer := NewDefaultBranchSyncer(testClient(t, server))
	_, err := syncer.Sync(context.Background(), RepoRef{"acme", "gone"}, RepoRef{"acme", "dest"})
	if !gh.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
