package query_test

import (
	"reflect"
	"testing"

	"github.com/jagadeeswar-N-G/agent-nexus/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "agents", "a").
		Project("agent_id", "AgentID").
		Project("name", "Name").
		Project("status", "Status").
		Project("skills", "Skills").
		Project("reputation_score", "ReputationScore")
}

func TestBuilder_BuildCount(t *testing.T) {
	status := "active"
	sql, args := query.
		NewBuilder(testProjection(), "Name").
		WhereEquals("Status", status).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.agents a WHERE a.status = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{status}) {
		t.Errorf("args = %v, want [active]", args)
	}
}

func TestBuilder_BuildPage(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection(), "Name").
		BuildPage(2, 10)

	want := "SELECT a.agent_id, a.name, a.status, a.skills, a.reputation_score " +
		"FROM public.agents a ORDER BY a.name ASC LIMIT 10 OFFSET 10"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuilder_BuildSingle(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection(), "Name").
		BuildSingle("AgentID", "a1b2")

	want := "SELECT a.agent_id, a.name, a.status, a.skills, a.reputation_score " +
		"FROM public.agents a WHERE a.agent_id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"a1b2"}) {
		t.Errorf("args = %v, want [a1b2]", args)
	}
}

func TestBuilder_ParameterNumbering(t *testing.T) {
	search := "forge"
	minRep := 40

	sql, args := query.
		NewBuilder(testProjection(), "Name").
		WhereSearch(&search, "Name", "AgentID").
		WhereEquals("Status", "active").
		WhereGte("ReputationScore", minRep).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.agents a WHERE " +
		"(a.name ILIKE $1 OR a.agent_id ILIKE $2) AND a.status = $3 AND a.reputation_score >= $4"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 4 {
		t.Errorf("len(args) = %d, want 4", len(args))
	}
}

func TestBuilder_WhereArrayContains(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection(), "Name").
		WhereArrayContains("Skills", []string{"go", "sql"}).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.agents a WHERE a.skills @> ARRAY[$1, $2]"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"go", "sql"}) {
		t.Errorf("args = %v, want [go sql]", args)
	}
}

func TestBuilder_OrderByDescending(t *testing.T) {
	sql, _ := query.
		NewBuilder(testProjection(), "Name").
		OrderBy("ReputationScore", true).
		BuildPage(1, 5)

	want := "SELECT a.agent_id, a.name, a.status, a.skills, a.reputation_score " +
		"FROM public.agents a ORDER BY a.reputation_score DESC LIMIT 5 OFFSET 0"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []query.SortField
	}{
		{
			name: "empty",
			expr: "",
			want: nil,
		},
		{
			name: "single ascending",
			expr: "name",
			want: []query.SortField{{Field: "name"}},
		},
		{
			name: "mixed directions",
			expr: "name,-created_at",
			want: []query.SortField{
				{Field: "name"},
				{Field: "created_at", Descending: true},
			},
		},
		{
			name: "whitespace and blanks",
			expr: " name , , -status ",
			want: []query.SortField{
				{Field: "name"},
				{Field: "status", Descending: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.expr)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestBuilder_IgnoresEmptyConditions(t *testing.T) {
	var nilSearch *string

	sql, args := query.
		NewBuilder(testProjection(), "Name").
		WhereSearch(nilSearch, "Name").
		WhereContains("Name", nil).
		WhereArrayContains("Skills", nil).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.agents a"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}
