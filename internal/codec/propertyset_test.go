package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePropertySetCPF() *CPF {
	c := NewCPF()
	c.Append("parts", uint32(1))
	c.Append("outfit", uint32(1))
	c.Append("resourcekeyidx", uint32(3))
	c.Append("shapekeyidx", uint32(4))
	c.Append("numoverrides", uint32(0))
	c.Append("type", "skin")
	c.Append("age", uint32(0x40))
	c.Append("gender", uint32(2))
	c.Append("species", uint32(1))
	c.Append("flags", uint32(0))
	c.Append("name", "afbodydress")
	c.Append("creator", "00000000-0000-0000-0000-000000000000")
	c.Append("family", "6f3de000-0000-0000-0000-000000000000")
	c.Append("skintone", "00000000-0000-0000-0000-000000000000")
	c.Append("hairtone", "00000000-0000-0000-0000-000000000000")
	c.Append("category", uint32(7))
	c.Append("shoe", uint32(3))
	c.Append("fitness", uint32(1))
	return c
}

func TestParsePropertySet(t *testing.T) {
	t.Parallel()

	c := makePropertySetCPF()
	c.Append("version", uint32(2))
	c.Append("priority", int32(100))
	c.Append("genetic", float32(0.5))
	c.Append("override0shape", uint32(0))
	c.Append("override0subset", "body")
	c.Append("override0resourcekeyidx", uint32(5))
	// fix up the override count appended by the helper
	for i := range c.Items {
		if c.Items[i].Name == "numoverrides" {
			c.Items[i].Value = uint32(1)
		}
	}

	data, err := c.Encode()
	require.NoError(t, err)

	ps, err := ParsePropertySet(data)
	require.NoError(t, err)

	require.NotNil(t, ps.Version)
	assert.Equal(t, uint32(2), *ps.Version)
	assert.Nil(t, ps.Product)
	require.NotNil(t, ps.Priority)
	assert.Equal(t, uint32(100), *ps.Priority)
	require.NotNil(t, ps.Genetic)
	assert.Equal(t, float32(0.5), *ps.Genetic)

	assert.Equal(t, uint32(1), ps.Parts)
	assert.Equal(t, uint32(1), ps.Outfit)
	assert.Equal(t, Reference{Index: 3}, ps.Resource)
	assert.Equal(t, Reference{Index: 4}, ps.Shape)
	assert.Equal(t, "afbodydress", ps.Name)
	assert.Equal(t, "skin", ps.Type)
	assert.Equal(t, uint32(0x40), ps.Age)
	assert.Equal(t, uint32(7), ps.Category)

	require.Len(t, ps.Overrides, 1)
	assert.Equal(t, OutfitOverride{Shape: 0, Subset: "body", Resource: Reference{Index: 5}}, ps.Overrides[0])
}

func TestPropertySetEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	version := uint32(2)
	genetic := float32(1)
	ps := &PropertySet{
		Version:  &version,
		Parts:    2,
		Outfit:   2,
		Resource: Reference{Index: 1},
		Shape:    Reference{Index: 2},
		Age:      0x20,
		Gender:   1,
		Species:  1,
		Name:     "amtoplumberjack",
		Creator:  "creator",
		Family:   "family",
		Genetic:  &genetic,
		Type:     "top",
		Skintone: "s",
		Hairtone: "4",
		Category: 0xFF7F,
		Shoe:     1,
		Fitness:  4,
		Overrides: []OutfitOverride{
			{Shape: 0, Subset: "top", Resource: Reference{Index: 3}},
			{Shape: 0, Subset: "body", Resource: Reference{Index: 4}},
		},
	}

	data, err := ps.Encode()
	require.NoError(t, err)

	parsed, err := ParsePropertySet(data)
	require.NoError(t, err)
	assert.Equal(t, ps, parsed)
}

func TestParsePropertySetMirrorsPartsAndOutfit(t *testing.T) {
	t.Parallel()

	c := makePropertySetCPF()
	stripped := make([]CPFItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Name != "parts" {
			stripped = append(stripped, item)
		}
	}
	c.Items = stripped

	data, err := c.Encode()
	require.NoError(t, err)

	ps, err := ParsePropertySet(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), ps.Parts)
	assert.Equal(t, uint32(1), ps.Outfit)
}

func TestParsePropertySetMissingPartsAndOutfit(t *testing.T) {
	t.Parallel()

	c := makePropertySetCPF()
	stripped := make([]CPFItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Name != "parts" && item.Name != "outfit" {
			stripped = append(stripped, item)
		}
	}
	c.Items = stripped

	data, err := c.Encode()
	require.NoError(t, err)

	_, err = ParsePropertySet(data)
	require.Error(t, err)
	assert.EqualError(t, err, "could not find or parse property by key part or outfit")
}

func TestParsePropertySetFromXML(t *testing.T) {
	t.Parallel()

	data := []byte(`<cGZPropertySetString version="2">
  <AnyUint32 key="outfit">4</AnyUint32>
  <AnyUint32 key="resourcekeyidx">1</AnyUint32>
  <AnyUint32 key="shapekeyidx">2</AnyUint32>
  <AnyUint32 key="numoverrides">0</AnyUint32>
  <AnyString key="type">hair</AnyString>
  <AnyUint32 key="age">8</AnyUint32>
  <AnyUint32 key="gender">1</AnyUint32>
  <AnyUint32 key="species">1</AnyUint32>
  <AnyUint32 key="flags">0</AnyUint32>
  <AnyString key="name">afhairlong</AnyString>
  <AnyString key="creator">creator</AnyString>
  <AnyString key="family">family</AnyString>
  <AnyString key="skintone"></AnyString>
  <AnyString key="hairtone">1</AnyString>
  <AnyUint32 key="category">1</AnyUint32>
  <AnyUint32 key="shoe">0</AnyUint32>
  <AnyUint32 key="fitness">0</AnyUint32>
</cGZPropertySetString>`)

	ps, err := ParsePropertySet(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), ps.Parts)
	assert.Equal(t, uint32(4), ps.Outfit)
	assert.Equal(t, "afhairlong", ps.Name)
	assert.Equal(t, "hair", ps.Type)
}
