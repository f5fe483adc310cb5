package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeKind(t *testing.T) {
	for _, s := range []string{"folder", "file", "image"} {
		k, ok := ParseNodeKind(s)
		assert.True(t, ok, s)
		assert.Equal(t, NodeKind(s), k)
	}

	_, ok := ParseNodeKind("video")
	assert.False(t, ok)
	_, ok = ParseNodeKind("")
	assert.False(t, ok)
}

func TestNodeKind_HasContent(t *testing.T) {
	assert.False(t, KindFolder.HasContent())
	assert.True(t, KindFile.HasContent())
	assert.True(t, KindImage.HasContent())
}

func TestParentRef(t *testing.T) {
	var zero ParentRef
	assert.True(t, zero.IsRoot())
	assert.Equal(t, Root(), zero)
	assert.Equal(t, "0", Root().String())

	p := ParentNode("abc")
	assert.False(t, p.IsRoot())
	assert.Equal(t, "abc", p.ID())
	assert.Equal(t, "abc", p.String())
}

func TestParentRef_JSON(t *testing.T) {
	b, err := json.Marshal(Root())
	require.NoError(t, err)
	assert.Equal(t, "0", string(b))

	b, err = json.Marshal(ParentNode("f1"))
	require.NoError(t, err)
	assert.Equal(t, `"f1"`, string(b))

	tests := []struct {
		in   string
		want ParentRef
	}{
		{`0`, Root()},
		{`"0"`, Root()},
		{`""`, Root()},
		{`null`, Root()},
		{`false`, Root()},
		{`"f1"`, ParentNode("f1")},
		{`12`, ParentNode("12")},
	}
	for _, tt := range tests {
		var got ParentRef
		require.NoError(t, json.Unmarshal([]byte(tt.in), &got), tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	var bad ParentRef
	assert.Error(t, json.Unmarshal([]byte(`{}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestParseParentRef(t *testing.T) {
	id := "6f1c3a52-2f7a-4c3e-9b7a-1d2e3f405162"

	tests := []struct {
		in     string
		ok     bool
		isRoot bool
	}{
		{"", true, true},
		{"0", true, true},
		{id, true, false},
		{"not-an-id", false, false},
		{"12", false, false},
	}
	for _, tc := range tests {
		ref, ok := ParseParentRef(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if ok {
			assert.Equal(t, tc.isRoot, ref.IsRoot(), tc.in)
		}
	}

	ref, _ := ParseParentRef(id)
	assert.Equal(t, id, ref.ID())
}

func TestIsThumbnailWidth(t *testing.T) {
	for _, w := range []int{100, 250, 500} {
		assert.True(t, IsThumbnailWidth(w))
	}
	for _, w := range []int{0, 1, 200, 1000} {
		assert.False(t, IsThumbnailWidth(w))
	}
}
