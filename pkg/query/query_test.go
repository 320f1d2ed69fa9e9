package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confprop/confprop/pkg/propagate"
	"github.com/confprop/confprop/pkg/tree"
)

// fixture builds:
//
//	/dc                      env=prod
//	  /us-east
//	    /web-01              role=web, ports=[80, 443]
//	    /web-02              role=web, ports=[8080]
//	    /db-01               role=db
//	  /eu-west
//	    /web-01              role=web
func fixture(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := tree.New("dc")
	require.NoError(t, err)
	tr.Root().SetAttribute("env", "prod")

	create := func(path string, attrs map[string]any) {
		t.Helper()
		_, err := tr.Create(path, attrs)
		require.NoError(t, err)
	}
	create("/dc/us-east/web-01", map[string]any{"role": "web", "ports": []any{80, 443}})
	create("/dc/us-east/web-02", map[string]any{"role": "web", "ports": []any{8080}})
	create("/dc/us-east/db-01", map[string]any{"role": "db"})
	create("/dc/eu-west/web-01", map[string]any{"role": "web"})
	return tr
}

func paths(nodes []*tree.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Path())
	}
	return out
}

func TestQuery(t *testing.T) {
	tr := fixture(t)

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "exact path",
			pattern: "/dc/us-east/db-01",
			want:    []string{"/dc/us-east/db-01"},
		},
		{
			name:    "single star per region",
			pattern: "/dc/*/web-01",
			want:    []string{"/dc/us-east/web-01", "/dc/eu-west/web-01"},
		},
		{
			name:    "double star any depth",
			pattern: "/dc/**/web-01",
			want:    []string{"/dc/us-east/web-01", "/dc/eu-west/web-01"},
		},
		{
			name:    "in-segment glob",
			pattern: "/dc/us-east/web*",
			want:    []string{"/dc/us-east/web-01", "/dc/us-east/web-02"},
		},
		{
			name:    "subtree including base",
			pattern: "/dc/us-east/**",
			want: []string{
				"/dc/us-east",
				"/dc/us-east/web-01",
				"/dc/us-east/web-02",
				"/dc/us-east/db-01",
			},
		},
		{
			name:    "no matches",
			pattern: "/dc/ap-south/**",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Query(tr, tt.pattern)
			assert.Equal(t, tt.want, paths(got))
		})
	}
}

func TestQueryValuesInherit(t *testing.T) {
	tr := fixture(t)

	values, err := QueryValues(tr, "/dc/us-east/web*", "env", propagate.ModeInherit)
	require.NoError(t, err)
	// Both hosts inherit the root's env.
	assert.Equal(t, []any{"prod", "prod"}, values)
}

func TestQueryValuesSkipsAbsent(t *testing.T) {
	tr := fixture(t)

	values, err := QueryValues(tr, "/dc/us-east/*", "ports", propagate.ModeNone)
	require.NoError(t, err)
	// db-01 has no ports; it contributes nothing.
	assert.Equal(t, []any{[]any{80, 443}, []any{8080}}, values)
}

func TestQueryValuesAggregateFlattens(t *testing.T) {
	tr := fixture(t)

	// Two matched subtrees with two role holders each under us-east plus
	// one under eu-west: aggregate sequences are spliced, not nested.
	values, err := QueryValues(tr, "/dc/*", "role", propagate.ModeAggregate)
	require.NoError(t, err)
	assert.Equal(t, []any{"web", "web", "db", "web"}, values)

	for _, v := range values {
		_, nested := v.([]any)
		assert.False(t, nested, "aggregate results must be flattened")
	}
}

func TestQueryValuesInvalidMode(t *testing.T) {
	tr := fixture(t)
	_, err := QueryValues(tr, "/dc/**", "role", propagate.Mode(99))
	assert.Error(t, err)
}
