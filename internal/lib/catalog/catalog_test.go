package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	items := []Item{
		{ID: "a", Title: "AI Dashboard", Category: "analytics", Tags: []string{"bi"}},
		{ID: "b", Title: "Automation", Description: "Workflow robots", Category: "automation"},
		{ID: "c", Title: "Chatbot", Category: "customer-experience", Tags: []string{"NLP"}},
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "no filter", query: Query{}, want: []string{"a", "b", "c"}},
		{name: "all category", query: Query{Category: "All"}, want: []string{"a", "b", "c"}},
		{name: "category", query: Query{Category: "automation"}, want: []string{"b"}},
		{name: "search title", query: Query{Search: "dash"}, want: []string{"a"}},
		{name: "search description case insensitive", query: Query{Search: "ROBOT"}, want: []string{"b"}},
		{name: "search tag", query: Query{Search: "nlp"}, want: []string{"c"}},
		{name: "category and search", query: Query{Category: "analytics", Search: "chat"}, want: []string{}},
		{name: "unknown category", query: Query{Category: "nope"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.query)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Solutions)
	assert.NotEmpty(t, c.Resources)

	whitepapers := Filter(c.Resources, Query{Category: "whitepapers"})
	assert.Len(t, whitepapers, 2)
}
