package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtools/dbpfkit/internal/codec"
	"github.com/simtools/dbpfkit/internal/dbpf"
	"github.com/simtools/dbpfkit/internal/qfs"
	"github.com/simtools/dbpfkit/internal/tgi"
)

func bconPayload(t *testing.T, name string, values ...uint16) []byte {
	t.Helper()
	bc := &codec.BehaviourConstants{FileName: name, Constants: values}
	data, err := bc.Encode()
	require.NoError(t, err)
	return data
}

func TestEntryFileName(t *testing.T) {
	t.Parallel()

	bconID := tgi.TGI{Type: tgi.SimanticsBehaviourConstants, Group: 0x7F000001, Instance: 0x1000}
	assert.Equal(t, "money globals.bcon", EntryFileName(bconID, bconPayload(t, "money globals", 500)))

	// payload too short for a name block
	assert.Equal(t, "0x0000000000001000.bcon", EntryFileName(bconID, []byte{1, 2, 3}))

	// type without an embedded name
	gmdcID := tgi.TGI{Type: tgi.GeometricDataContainer, Group: 1, Instance: 0xBEEF}
	assert.Equal(t, "0x000000000000BEEF.5gd", EntryFileName(gmdcID, bconPayload(t, "ignored")))

	// separators and reserved characters fold to underscores
	assert.Equal(t, "a_b_c.bcon", EntryFileName(bconID, bconPayload(t, "a/b:c")))
}

func TestExportPackage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	pkg := dbpf.New(dbpf.Version{Major: 1, Minor: 1})
	first := bconPayload(t, "tuning", 1, 2)
	second := bconPayload(t, "tuning", 3)
	plain := []byte("loose bytes")
	_, err := pkg.Add(tgi.TGI{Type: tgi.SimanticsBehaviourConstants, Group: 1, Instance: 0x10}, first)
	require.NoError(t, err)
	_, err = pkg.Add(tgi.TGI{Type: tgi.SimanticsBehaviourConstants, Group: 1, Instance: 0x11}, second)
	require.NoError(t, err)
	_, err = pkg.Add(tgi.TGI{Type: tgi.GeometricDataContainer, Group: 1, Instance: 0x12}, plain)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	e, err := NewExporter(&ExporterOptions{OutputDir: dir})
	require.NoError(t, err)

	var last string
	written, err := e.ExportPackage(ctx, pkg, func(current, total int, name string) {
		assert.Equal(t, 3, total)
		last = name
	})
	require.NoError(t, err)
	assert.Equal(t, 3, written)
	assert.Equal(t, "0x0000000000000012.5gd", last)

	got, err := os.ReadFile(filepath.Join(dir, "tuning.bcon"))
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// same embedded name, suffixed in index order
	got, err = os.ReadFile(filepath.Join(dir, "tuning_1.bcon"))
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestExportPackageRaw(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	pkg := dbpf.New(dbpf.Version{Major: 1, Minor: 1})
	payload := bconPayload(t, "bulk", make([]uint16, 200)...)
	entry, err := pkg.Add(tgi.TGI{Type: tgi.SimanticsBehaviourConstants, Group: 1, Instance: 0x20}, payload)
	require.NoError(t, err)
	require.NoError(t, entry.SetCompression(ctx, dbpf.RefPack))
	_, err = pkg.Add(tgi.TGI{Type: tgi.SimanticsBehaviourConstants, Group: 1, Instance: 0x21}, bconPayload(t, "tiny", 9))
	require.NoError(t, err)

	dir := t.TempDir()
	e, err := NewExporter(&ExporterOptions{OutputDir: dir, Raw: true})
	require.NoError(t, err)
	written, err := e.ExportPackage(ctx, pkg, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	stored, err := os.ReadFile(filepath.Join(dir, "bulk.bcon.refpak"))
	require.NoError(t, err)
	expanded, err := qfs.Decompress(stored)
	require.NoError(t, err)
	assert.Equal(t, payload, expanded)

	raw, err := os.ReadFile(filepath.Join(dir, "tiny.bcon.raw"))
	require.NoError(t, err)
	assert.Equal(t, bconPayload(t, "tiny", 9), raw)
}

func TestTexturePNG(t *testing.T) {
	t.Parallel()

	// raw formats store BGRA
	pixels := []byte{
		0, 0, 255, 255,
		0, 255, 0, 255,
		255, 0, 0, 255,
		255, 255, 255, 255,
	}
	tex := &codec.TextureResource{
		FileName: "swatch",
		Width:    2,
		Height:   2,
		Format:   codec.FormatRawARGB32,
		Textures: []codec.MipChain{{Entries: []codec.MipEntry{
			{Data: []byte{0, 0, 255, 255}},
			{Data: pixels},
		}}},
	}

	var buf bytes.Buffer
	require.NoError(t, TexturePNG(tex, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, color.NRGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, color.NRGBAModel.Convert(img.At(1, 0)))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, color.NRGBAModel.Convert(img.At(0, 1)))
}

func TestTexturePNGSkipsLIFOLevels(t *testing.T) {
	t.Parallel()

	tex := &codec.TextureResource{
		Width:  2,
		Height: 2,
		Format: codec.FormatRawARGB32,
		Textures: []codec.MipChain{{Entries: []codec.MipEntry{
			{Data: []byte{10, 20, 30, 255}},
			{LIFO: true, Name: "swatch_lifo"},
		}}},
	}

	var buf bytes.Buffer
	require.NoError(t, TexturePNG(tex, &buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
}

func TestTexturePNGEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := TexturePNG(&codec.TextureResource{}, &buf)
	require.ErrorContains(t, err, "no mip levels")
}
