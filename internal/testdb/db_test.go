package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTestDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		fallback string
		want     string
	}{
		{name: "none set", want: ""},
		{name: "fallback only", fallback: "postgres://b/todo", want: "postgres://b/todo"},
		{name: "primary wins", primary: "postgres://a/todo", fallback: "postgres://b/todo", want: "postgres://a/todo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvDatabaseURL, tc.primary)
			t.Setenv(EnvTodoTestDBURL, tc.fallback)

			assert.Equal(t, tc.want, GetTestDatabaseURL())
			assert.Equal(t, tc.want != "", IsIntegrationTestEnvironment())
		})
	}
}

func TestGetTestDBWithTSkipsWithoutURL(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvTodoTestDBURL, "")

	skipped := t.Run("inner", func(t *testing.T) {
		GetTestDBWithT(t)
		t.Error("expected the test to be skipped")
	})
	assert.True(t, skipped, "a skipped subtest reports success")
}
