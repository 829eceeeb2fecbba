package identity

import (
	"reflect"
	"testing"

	"github.com/google/go-github/v66/github"
)

func TestTeamSlugs(t *testing.T) {
	tests := []struct {
		name  string
		teams []*github.Team
		want  []string
	}{
		{
			name:  "nil list resolves to empty",
			teams: nil,
			want:  []string{},
		},
		{
			name:  "empty list resolves to empty",
			teams: []*github.Team{},
			want:  []string{},
		},
		{
			name: "order preserved",
			teams: []*github.Team{
				{Slug: github.String("infra")},
				{Slug: github.String("core")},
				{Slug: github.String("release")},
			},
			want: []string{"infra", "core", "release"},
		},
		{
			name: "nil and slugless entries skipped",
			teams: []*github.Team{
				nil,
				{Slug: github.String("core")},
				{Name: github.String("no-slug")},
			},
			want: []string{"core"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TeamSlugs(tt.teams)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TeamSlugs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserLogins(t *testing.T) {
	tests := []struct {
		name  string
		users []*github.User
		want  []string
	}{
		{
			name:  "nil list resolves to empty",
			users: nil,
			want:  []string{},
		},
		{
			name: "order preserved",
			users: []*github.User{
				{Login: github.String("octocat")},
				{Login: github.String("hubot")},
			},
			want: []string{"octocat", "hubot"},
		},
		{
			name: "nil and loginless entries skipped",
			users: []*github.User{
				{Login: github.String("octocat")},
				nil,
				{},
			},
			want: []string{"octocat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserLogins(tt.users)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UserLogins = %v, want %v", got, tt.want)
			}
		})
	}
}
