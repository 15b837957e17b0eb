package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/errors"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func testDesign(lines int) *design.Design {
	d := design.New("panel")
	for i := 0; i < lines; i++ {
		l := design.Line{ID: design.NewID(), X1: 0, Y1: i, X2: 10, Y2: i}
		d.Lines[l.ID] = l
	}
	return d
}

func TestFileStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in := testDesign(3)
	require.NoError(t, s.Put(ctx, "asanoha", in))

	out, err := s.Get(ctx, "asanoha")
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Len(t, out.Lines, 3)
	assert.Len(t, out.Groups, 1)
}

func TestFileStoreGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDesignNotFound, errors.GetCode(err))
}

func TestFileStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "panel", testDesign(1)))
	require.NoError(t, s.Put(ctx, "panel", testDesign(5)))

	out, err := s.Get(ctx, "panel")
	require.NoError(t, err)
	assert.Len(t, out.Lines, 5)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "panel", testDesign(1)))
	require.NoError(t, s.Delete(ctx, "panel"))

	_, err := s.Get(ctx, "panel")
	assert.Equal(t, errors.ErrCodeDesignNotFound, errors.GetCode(err))

	err = s.Delete(ctx, "panel")
	assert.Equal(t, errors.ErrCodeDesignNotFound, errors.GetCode(err))
}

func TestFileStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "zeta", testDesign(2)))
	require.NoError(t, s.Put(ctx, "alpha", testDesign(4)))

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, 4, infos[0].Lines)
	assert.Equal(t, 1, infos[0].Groups)
	assert.Equal(t, "zeta", infos[1].Name)
	assert.False(t, infos[0].UpdatedAt.IsZero())
}

func TestFileStoreRejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, name := range []string{"", "../escape", "a/b", "foo\x00"} {
		err := s.Put(ctx, name, testDesign(1))
		assert.Equal(t, errors.ErrCodeInvalidName, errors.GetCode(err), "name %q", name)
	}
}
