package dbpf

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtools/dbpfkit/internal/codec"
	"github.com/simtools/dbpfkit/internal/qfs"
	"github.com/simtools/dbpfkit/internal/tgi"
)

func bconPayload(t *testing.T, name string, values ...uint16) []byte {
	t.Helper()
	bcon := &codec.BehaviourConstants{FileName: name, Constants: values}
	data, err := bcon.Encode()
	require.NoError(t, err)
	return data
}

func bconID(low uint32) tgi.TGI {
	return tgi.TGI{Type: tgi.SimanticsBehaviourConstants, Group: 0x7F000001, Instance: uint64(low)}
}

func TestEntryDecompressIsCachedAcrossCalls(t *testing.T) {
	// not parallel, the expander table is instrumented

	ctx := context.Background()
	payload := bconPayload(t, "cache probe", 7, 8, 9)

	f := New(Version{1, 1})
	e, err := f.Add(bconID(1), payload)
	require.NoError(t, err)
	require.NoError(t, e.SetCompression(ctx, RefPack))

	var buf bytes.Buffer
	require.NoError(t, f.Write(ctx, &buf))

	calls := 0
	orig := expanders[RefPack]
	expanders[RefPack] = func(src []byte, declared uint32) ([]byte, error) {
		calls++
		return orig(src, declared)
	}
	t.Cleanup(func() { expanders[RefPack] = orig })

	reopened, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	entries, err := reopened.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	re := entries[0]
	for i := 0; i < 3; i++ {
		plain, err := re.Decompressed(ctx)
		require.NoError(t, err)
		assert.Equal(t, payload, plain)
	}
	assert.Equal(t, 1, calls)

	first, ok, err := re.Decoded(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	second, _, err := re.Decoded(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestEntrySetRawReplacesDownstreamLayers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New(Version{1, 1})
	e, err := f.Add(bconID(1), bconPayload(t, "before", 1))
	require.NoError(t, err)

	decoded, ok, err := e.Decoded(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "before", decoded.(*codec.BehaviourConstants).FileName)

	after := bconPayload(t, "after", 2, 3)
	e.SetRaw(after, Uncompressed)
	assert.Equal(t, uint32(len(after)), e.StoredSize())

	plain, err := e.Decompressed(ctx)
	require.NoError(t, err)
	assert.Equal(t, after, plain)

	decoded, ok, err = e.Decoded(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	bcon := decoded.(*codec.BehaviourConstants)
	assert.Equal(t, "after", bcon.FileName)
	assert.Equal(t, []uint16{2, 3}, bcon.Constants)
}

func TestEntrySetDecodedReencodes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New(Version{1, 1})
	e, err := f.Add(bconID(2), bconPayload(t, "fridge", 10))
	require.NoError(t, err)

	edit := &codec.BehaviourConstants{FileName: "fridge", Constants: []uint16{10, 11}}
	e.SetDecoded(edit)

	want, err := edit.Encode()
	require.NoError(t, err)

	raw, err := e.Raw(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, raw)
	assert.Equal(t, uint32(len(want)), e.DecompressedSize())

	got, ok, err := e.Decoded(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, edit, got)
}

func TestEntrySetCompressionReencodesStoredForm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	payload := bytes.Repeat([]byte("llama "), 100)
	f := New(Version{1, 1})
	e, err := f.Add(tgi.TGI{Type: 0x0BADCAFE, Group: 1, Instance: 9}, payload)
	require.NoError(t, err)

	require.NoError(t, e.SetCompression(ctx, RefPack))
	assert.Equal(t, RefPack, e.Compression())

	raw, err := e.Raw(ctx)
	require.NoError(t, err)
	require.Less(t, len(raw), len(payload))
	back, err := qfs.Decompress(raw)
	require.NoError(t, err)
	assert.Equal(t, payload, back)
	assert.Equal(t, uint32(len(payload)), e.DecompressedSize())
	assert.Equal(t, uint32(len(raw)), e.StoredSize())

	// switching back re-expands from the cached payload
	require.NoError(t, e.SetCompression(ctx, Uncompressed))
	raw, err = e.Raw(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, raw)

	err = e.SetCompression(ctx, Streamable)
	require.ErrorIs(t, err, ErrUnsupportedCompression)
}

func TestEntryDecodedDispatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := New(Version{1, 1})
	broken, err := f.Add(tgi.TGI{Type: tgi.ObjectData, Group: 1, Instance: 3}, []byte{1, 2})
	require.NoError(t, err)
	known, err := f.Add(bconID(1), bconPayload(t, "probe", 7))
	require.NoError(t, err)
	unknown, err := f.Add(tgi.TGI{Type: 0x0BADCAFE, Group: 1, Instance: 2}, []byte{1, 2, 3})
	require.NoError(t, err)

	_, ok, err := broken.Decoded(ctx)
	require.Error(t, err)
	assert.True(t, ok)
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, tgi.ObjectData, derr.Type)
	assert.ErrorIs(t, err, codec.ErrTruncated)

	// one entry failing to decode does not taint its siblings
	decoded, ok, err := known.Decoded(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	bcon := decoded.(*codec.BehaviourConstants)
	assert.Equal(t, "probe", bcon.FileName)
	assert.Equal(t, []uint16{7}, bcon.Constants)

	for i := 0; i < 2; i++ {
		decoded, ok, err = unknown.Decoded(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, decoded)
	}
}

func TestEntryDeferredAfterClose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	payload := []byte("deferred payload")
	f := New(Version{1, 1})
	_, err := f.Add(tgi.TGI{Type: 0x0BADCAFE, Group: 4, Instance: 5}, payload)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Write(ctx, &buf))

	g, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	entries, err := g.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, g.Close())

	_, err = entries[0].Raw(ctx)
	require.ErrorIs(t, err, ErrDeferred)
	_, err = entries[0].Decompressed(ctx)
	require.ErrorIs(t, err, ErrDeferred)

	// closing before the index is parsed defers the index itself
	g2, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NoError(t, g2.Close())
	_, err = g2.Entries()
	require.ErrorIs(t, err, ErrDeferred)

	// bytes materialized before the close stay readable
	g3, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	entries3, err := g3.Entries()
	require.NoError(t, err)
	_, err = entries3[0].Decompressed(ctx)
	require.NoError(t, err)
	require.NoError(t, g3.Close())

	raw, err := entries3[0].Raw(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, raw)
}

func TestEntrySizeMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	payload := bytes.Repeat([]byte("ab"), 200)
	f := New(Version{2, 0})
	e, err := f.Add(tgi.TGI{Type: 0x0BADCAFE, Group: 2, Instance: 6}, payload)
	require.NoError(t, err)
	require.NoError(t, e.SetCompression(ctx, RefPack))

	var buf bytes.Buffer
	require.NoError(t, f.Write(ctx, &buf))

	// declared payload size: header, index flags word, then 24 bytes into
	// the first entry record
	img := buf.Bytes()
	binary.LittleEndian.PutUint32(img[124:], uint32(len(payload))+1)

	g, err := Open(bytes.NewReader(img))
	require.NoError(t, err)
	entries, err := g.Entries()
	require.NoError(t, err)
	_, err = entries[0].Decompressed(ctx)
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestEntryStreamableIsOpaque(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	payload := []byte("opaque stream")
	f := New(Version{2, 0})
	_, err := f.Add(tgi.TGI{Type: 0x0BADCAFE, Group: 3, Instance: 7}, payload)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(ctx, &buf))

	img := buf.Bytes()
	binary.LittleEndian.PutUint16(img[128:], uint16(Streamable))

	g, err := Open(bytes.NewReader(img))
	require.NoError(t, err)
	entries, err := g.Entries()
	require.NoError(t, err)

	e := entries[0]
	assert.Equal(t, Streamable, e.Compression())

	// stored bytes pass through untouched, only expansion is refused
	raw, err := e.Raw(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, raw)
	_, err = e.Decompressed(ctx)
	require.ErrorIs(t, err, ErrUnsupportedCompression)
}
