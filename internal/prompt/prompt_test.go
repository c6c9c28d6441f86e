package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerResolvesEachRequestIndependently(t *testing.T) {
	tr := NewTracker()
	var got []string

	name := tr.Open(KindText, "Course name", "", func(r Response) error {
		got = append(got, "name="+r.Value)
		return nil
	})
	del := tr.Open(KindConfirm, "Delete task?", "", func(r Response) error {
		got = append(got, "delete="+map[bool]string{true: "yes", false: "no"}[r.Confirmed])
		return nil
	})
	require.NotEqual(t, name.ID, del.ID)
	assert.Equal(t, 2, tr.Pending())

	cur, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, name.ID, cur.ID)

	ran, err := tr.Resolve(Response{ID: del.ID, Confirmed: true})
	require.NoError(t, err)
	assert.True(t, ran)
	ran, err = tr.Resolve(Response{ID: name.ID, Value: "Go"})
	require.NoError(t, err)
	assert.True(t, ran)

	assert.Equal(t, []string{"delete=yes", "name=Go"}, got)
	assert.Equal(t, 0, tr.Pending())
}

func TestTrackerIgnoresStaleAndUnknownIDs(t *testing.T) {
	tr := NewTracker()
	calls := 0
	req := tr.Open(KindText, "x", "", func(Response) error { calls++; return nil })

	ran, err := tr.Resolve(Response{ID: "nope"})
	require.NoError(t, err)
	assert.False(t, ran)

	_, err = tr.Resolve(Response{ID: req.ID})
	require.NoError(t, err)
	ran, err = tr.Resolve(Response{ID: req.ID})
	require.NoError(t, err)
	assert.False(t, ran, "second answer is stale")
	assert.Equal(t, 1, calls)
}

func TestTrackerCancel(t *testing.T) {
	tr := NewTracker()
	calls := 0
	a := tr.Open(KindText, "a", "", func(Response) error { calls++; return nil })
	b := tr.Open(KindMultiline, "b", "", func(Response) error { calls++; return nil })

	ran, err := tr.Resolve(Response{ID: a.ID, Canceled: true})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, tr.Cancel(b.ID))
	assert.False(t, tr.Cancel(b.ID))

	assert.Zero(t, calls)
	_, ok := tr.Current()
	assert.False(t, ok)
}

func TestTrackerPropagatesContinuationError(t *testing.T) {
	tr := NewTracker()
	boom := errors.New("boom")
	req := tr.Open(KindText, "x", "", func(Response) error { return boom })

	_, err := tr.Resolve(Response{ID: req.ID})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, tr.Pending())
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(strings.NewReader(tt.input), &out, "Delete course 1?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Delete course 1? (y/N): ", out.String())
		})
	}
}

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	got, err := Ask(strings.NewReader("\n"), &out, "Name", "Go")
	require.NoError(t, err)
	assert.Equal(t, "Go", got)
	assert.Equal(t, "Name [Go]: ", out.String())

	got, err = Ask(strings.NewReader("  Rust  \nignored\n"), &out, "Name", "")
	require.NoError(t, err)
	assert.Equal(t, "Rust", got)

	_, err = Ask(strings.NewReader(""), &out, "Name", "")
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "multiline", KindMultiline.String())
	assert.Equal(t, "confirm", KindConfirm.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
