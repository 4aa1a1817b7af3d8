package mediacache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinIDs(t *testing.T) {
	assert.Equal(t, "1042", joinIDs([]int64{1042}))
	assert.Equal(t, "1,2,3", joinIDs([]int64{1, 2, 3}))
	assert.Equal(t, "", joinIDs(nil))
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []int64
	}{
		{"single id", "1042", []int64{1042}},
		{"joined ids", "111,112", []int64{111, 112}},
		{"spaced ids", "111, 112", []int64{111, 112}},
		{"json number", float64(77), []int64{77}},
		{"empty string", "", nil},
		{"garbage", "abc", nil},
		{"partial garbage", "1,x", nil},
		{"nil", nil, nil},
		{"wrong shape", map[string]any{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIDs(tt.value))
		})
	}
}

func TestCoerceID(t *testing.T) {
	id, ok := coerceID("101")
	assert.True(t, ok)
	assert.Equal(t, int64(101), id)

	id, ok = coerceID(float64(202))
	assert.True(t, ok)
	assert.Equal(t, int64(202), id)

	_, ok = coerceID("")
	assert.False(t, ok)

	_, ok = coerceID(nil)
	assert.False(t, ok)
}

func TestEntryChecks(t *testing.T) {
	assert.True(t, entryPresent(""))
	assert.False(t, entryPresent(nil))

	assert.False(t, entryUsable(""))
	assert.False(t, entryUsable(nil))
	assert.True(t, entryUsable("7"))
	assert.True(t, entryUsable(float64(7)))
}
