package clipboard

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTools(t *testing.T, present ...string) {
	t.Helper()
	once = sync.Once{}
	selected, selectErr = tool{}, nil
	lookPath = func(name string) (string, error) {
		for _, p := range present {
			if p == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() {
		once = sync.Once{}
		selected, selectErr = tool{}, nil
		lookPath = exec.LookPath
		getenv = os.Getenv
	})
}

func TestChoose(t *testing.T) {
	cands := []tool{
		{paste: []string{"a-paste"}, copy: []string{"a-copy"}},
		{paste: []string{"b", "-o"}, copy: []string{"b", "-i"}},
	}
	tests := []struct {
		name    string
		present []string
		want    string
		wantErr bool
	}{
		{name: "first wins", present: []string{"a-paste", "a-copy", "b"}, want: "a-paste"},
		{name: "half installed is skipped", present: []string{"a-copy", "b"}, want: "b"},
		{name: "nothing", present: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeTools(t, tt.present...)
			got, err := choose(cands)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, missingHint, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.paste[0])
		})
	}
}

func TestAvailable_Unavailable(t *testing.T) {
	fakeTools(t)
	assert.False(t, Available())

	_, err := Read(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, errors.Is(Write(context.Background(), "x"), ErrUnavailable))
}
