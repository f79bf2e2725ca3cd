package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// cpfMagic opens the binary form; anything else is tried as XML.
const cpfMagic uint32 = 0xCBE750E0

// Property value type tags of the binary form.
const (
	cpfTagUInt   uint32 = 0xEB61E4F7
	cpfTagString uint32 = 0x0B8BEA18
	cpfTagFloat  uint32 = 0xABC78708
	cpfTagBool   uint32 = 0xCBA908E1
	cpfTagInt    uint32 = 0x0C264712
)

// CPFForm is the on-disk representation of a property set.
type CPFForm uint8

const (
	// FormBinary is the tagged binary layout behind the magic number.
	FormBinary CPFForm = iota
	// FormXMLString is the XML layout with a cGZPropertySetString root.
	FormXMLString
	// FormXMLUint32 is the XML layout with a cGZPropertySetUint32 root.
	FormXMLUint32
)

// CPFItem is one named property. Value is one of uint32, int32, string,
// float32 or bool.
type CPFItem struct {
	Name  string
	Value any
}

// CPF is the property-list container behind GZPS, BINX and the XML tuning
// resources. Items keep file order.
type CPF struct {
	Form CPFForm
	// Binary form version, or the XML version attribute when HasVersion.
	Version    uint16
	HasVersion bool
	Items      []CPFItem
}

// NewCPF returns an empty property set in the default binary form.
func NewCPF() *CPF {
	return &CPF{Form: FormBinary, Version: 2, HasVersion: true}
}

func (c *CPF) Append(name string, value any) {
	c.Items = append(c.Items, CPFItem{Name: name, Value: value})
}

// Lookup returns the value of the first property named key.
func (c *CPF) Lookup(key string) (any, bool) {
	for i := range c.Items {
		if c.Items[i].Name == key {
			return c.Items[i].Value, true
		}
	}
	return nil, false
}

// Take removes the first property named key and returns its value. The
// typed resource decoders consume their fields this way so that repeated
// key prefixes and leftovers cannot be matched twice.
func (c *CPF) Take(key string) (any, bool) {
	for i := range c.Items {
		if c.Items[i].Name == key {
			v := c.Items[i].Value
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return v, true
		}
	}
	return nil, false
}

func (c *CPF) UInt32(key string) (uint32, error) {
	v, ok := c.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("could not find property by key %s", key)
	}
	u, ok := v.(uint32)
	if !ok {
		return 0, fmt.Errorf("data of key %s has wrong type (%T)", key, v)
	}
	return u, nil
}

func (c *CPF) Text(key string) (string, error) {
	v, ok := c.Lookup(key)
	if !ok {
		return "", fmt.Errorf("could not find property by key %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("data of key %s has wrong type (%T)", key, v)
	}
	return s, nil
}

func (c *CPF) TakeUInt32(key string) (uint32, error) {
	v, ok := c.Take(key)
	if !ok {
		return 0, fmt.Errorf("could not find property by key %s", key)
	}
	u, ok := v.(uint32)
	if !ok {
		return 0, fmt.Errorf("data of key %s has wrong type (%T)", key, v)
	}
	return u, nil
}

func (c *CPF) TakeText(key string) (string, error) {
	v, ok := c.Take(key)
	if !ok {
		return "", fmt.Errorf("could not find property by key %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("data of key %s has wrong type (%T)", key, v)
	}
	return s, nil
}

func (c *CPF) TakeFloat32(key string) (float32, error) {
	v, ok := c.Take(key)
	if !ok {
		return 0, fmt.Errorf("could not find property by key %s", key)
	}
	f, ok := v.(float32)
	if !ok {
		return 0, fmt.Errorf("data of key %s has wrong type (%T)", key, v)
	}
	return f, nil
}

// TakeInt32Lenient accepts either signed or unsigned storage for fields
// that appear both ways in the wild.
func (c *CPF) TakeInt32Lenient(key string) (int32, error) {
	v, ok := c.Take(key)
	if !ok {
		return 0, fmt.Errorf("could not find property by key %s", key)
	}
	switch n := v.(type) {
	case int32:
		return n, nil
	case uint32:
		return int32(n), nil
	default:
		return 0, fmt.Errorf("data of key %s has wrong type (%T)", key, v)
	}
}

// Reference is an index into a companion 3IDR resource. It is stored as an
// integer property under its key plus a "keyidx" or "idx" suffix.
type Reference struct {
	Index uint32
}

func takeReference(c *CPF, key string, suffixKeyIdx bool) (Reference, error) {
	full := key + "idx"
	if suffixKeyIdx {
		full = key + "keyidx"
	}
	v, ok := c.Take(full)
	if !ok {
		return Reference{}, fmt.Errorf("could not find property by key %s", full)
	}
	switch n := v.(type) {
	case uint32:
		return Reference{Index: n}, nil
	case int32:
		return Reference{Index: uint32(n)}, nil
	default:
		return Reference{}, fmt.Errorf("data of key %s has wrong type (%T)", full, v)
	}
}

func (r Reference) appendCPF(c *CPF, key string, suffixKeyIdx bool) {
	full := key + "idx"
	if suffixKeyIdx {
		full = key + "keyidx"
	}
	c.Append(full, r.Index)
}

// ParseCPF reads either representation, selected by the leading magic.
func ParseCPF(data []byte) (*CPF, error) {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == cpfMagic {
		return parseBinaryCPF(data)
	}
	return parseXMLCPF(data)
}

func parseBinaryCPF(data []byte) (*CPF, error) {
	r := NewReader(data)
	if _, err := r.U32(); err != nil {
		return nil, err
	}
	version, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	count, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("entry count: %w", err)
	}

	cpf := &CPF{Form: FormBinary, Version: version, HasVersion: true}
	for i := uint32(0); i < count; i++ {
		tag, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("entry %d type: %w", i, err)
		}
		name, err := r.String32()
		if err != nil {
			return nil, fmt.Errorf("entry %d name: %w", i, err)
		}

		var value any
		switch tag {
		case cpfTagUInt:
			value, err = r.U32()
		case cpfTagInt:
			value, err = r.I32()
		case cpfTagString:
			value, err = r.String32()
		case cpfTagFloat:
			value, err = r.F32()
		case cpfTagBool:
			var b uint8
			b, err = r.U8()
			value = b != 0
		default:
			return nil, fmt.Errorf("entry %d (%s): unknown data type 0x%08X", i, name, tag)
		}
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, name, err)
		}

		cpf.Items = append(cpf.Items, CPFItem{Name: name, Value: value})
	}
	return cpf, nil
}

// parseIntText accepts the 0x-prefixed hex or plain decimal spellings the
// XML form uses for integers.
func parseIntText(s string, bits int) (uint64, bool) {
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		v, err := strconv.ParseUint(hex, 16, bits)
		if err == nil {
			return v, true
		}
	}
	v, err := strconv.ParseUint(s, 10, bits)
	return v, err == nil
}

func parseSintText(s string, bits int) (int64, bool) {
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		v, err := strconv.ParseInt(hex, 16, bits)
		if err == nil {
			return v, true
		}
	}
	v, err := strconv.ParseInt(s, 10, bits)
	return v, err == nil
}

func cpfTagName(tag uint32) string {
	switch tag {
	case cpfTagUInt:
		return "AnyUint32"
	case cpfTagInt:
		return "AnySint32"
	case cpfTagString:
		return "AnyString"
	case cpfTagFloat:
		return "AnyFloat32"
	case cpfTagBool:
		return "AnyBoolean"
	default:
		return ""
	}
}

func cpfTagForName(name string) (uint32, bool) {
	switch name {
	case "AnyUint32":
		return cpfTagUInt, true
	case "AnySint32":
		return cpfTagInt, true
	case "AnyString":
		return cpfTagString, true
	case "AnyFloat32":
		return cpfTagFloat, true
	case "AnyBoolean":
		return cpfTagBool, true
	default:
		return 0, false
	}
}

func validCPFTag(tag uint32) bool {
	switch tag {
	case cpfTagUInt, cpfTagInt, cpfTagString, cpfTagFloat, cpfTagBool:
		return true
	default:
		return false
	}
}

func parseXMLCPF(data []byte) (*CPF, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse xml: no root element")
	}

	cpf := &CPF{}
	switch root.Tag {
	case "cGZPropertySetString":
		cpf.Form = FormXMLString
	case "cGZPropertySetUint32":
		cpf.Form = FormXMLUint32
	default:
		return nil, fmt.Errorf("start tag is not one of \"cGZPropertySetString\" or \"cGZPropertySetUint32\"")
	}

	if attr := root.SelectAttr("version"); attr != nil {
		v, err := strconv.ParseUint(attr.Value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("could not parse version number: %w", err)
		}
		cpf.Version = uint16(v)
		cpf.HasVersion = true
	}

	for _, el := range root.ChildElements() {
		nameTag, hasNameTag := cpfTagForName(el.Tag)

		var attrTag uint32
		hasAttrTag := false
		if attr := el.SelectAttr("type"); attr != nil {
			if v, ok := parseIntText(attr.Value, 32); ok && validCPFTag(uint32(v)) {
				attrTag = uint32(v)
				hasAttrTag = true
			}
		}

		var tag uint32
		switch {
		case hasNameTag && hasAttrTag:
			if nameTag != attrTag {
				return nil, fmt.Errorf("type %s does not match type attribute 0x%08X", el.Tag, attrTag)
			}
			tag = nameTag
		case hasNameTag:
			tag = nameTag
		case hasAttrTag:
			tag = attrTag
		default:
			// not a property element
			continue
		}

		keyAttr := el.SelectAttr("key")
		if keyAttr == nil {
			return nil, fmt.Errorf("no key attribute in tag with type %s", cpfTagName(tag))
		}

		text := el.Text()
		var value any
		switch tag {
		case cpfTagUInt:
			v, ok := parseIntText(text, 32)
			if !ok {
				continue
			}
			value = uint32(v)
		case cpfTagInt:
			v, ok := parseSintText(text, 32)
			if !ok {
				continue
			}
			value = int32(v)
		case cpfTagString:
			value = text
		case cpfTagFloat:
			v, err := strconv.ParseFloat(text, 32)
			if err != nil {
				continue
			}
			value = float32(v)
		case cpfTagBool:
			switch strings.ToLower(text) {
			case "true":
				value = true
			case "false":
				value = false
			default:
				continue
			}
		}

		cpf.Items = append(cpf.Items, CPFItem{Name: keyAttr.Value, Value: value})
	}

	return cpf, nil
}

func cpfValueTag(v any) (uint32, error) {
	switch v.(type) {
	case uint32:
		return cpfTagUInt, nil
	case int32:
		return cpfTagInt, nil
	case string:
		return cpfTagString, nil
	case float32:
		return cpfTagFloat, nil
	case bool:
		return cpfTagBool, nil
	default:
		return 0, fmt.Errorf("unsupported property value type %T", v)
	}
}

// Encode serializes back to the form the value was parsed from.
func (c *CPF) Encode() ([]byte, error) {
	if c.Form == FormBinary {
		return c.encodeBinary()
	}
	return c.encodeXML()
}

func (c *CPF) encodeBinary() ([]byte, error) {
	w := NewWriter()
	w.U32(cpfMagic)
	w.U16(c.Version)
	w.U32(uint32(len(c.Items)))

	for i := range c.Items {
		item := &c.Items[i]
		tag, err := cpfValueTag(item.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, item.Name, err)
		}
		w.U32(tag)
		w.String32(item.Name)
		switch v := item.Value.(type) {
		case uint32:
			w.U32(v)
		case int32:
			w.I32(v)
		case string:
			w.String32(v)
		case float32:
			w.F32(v)
		case bool:
			if v {
				w.U8(1)
			} else {
				w.U8(0)
			}
		}
	}
	return w.Bytes(), nil
}

func (c *CPF) encodeXML() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rootName := "cGZPropertySetString"
	if c.Form == FormXMLUint32 {
		rootName = "cGZPropertySetUint32"
	}
	root := doc.CreateElement(rootName)
	if c.HasVersion {
		root.CreateAttr("version", strconv.FormatUint(uint64(c.Version), 10))
	}

	for i := range c.Items {
		item := &c.Items[i]
		tag, err := cpfValueTag(item.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, item.Name, err)
		}

		// the game's own writer spells signed entries "AnyInt" and relies
		// on the type attribute for reading them back
		name := cpfTagName(tag)
		if tag == cpfTagInt {
			name = "AnyInt"
		}

		el := root.CreateElement(name)
		el.CreateAttr("type", fmt.Sprintf("0x%x", tag))
		el.CreateAttr("key", item.Name)

		switch v := item.Value.(type) {
		case uint32:
			el.SetText(strconv.FormatUint(uint64(v), 10))
		case int32:
			el.SetText(strconv.FormatInt(int64(v), 10))
		case string:
			el.SetText(v)
		case float32:
			el.SetText(strconv.FormatFloat(float64(v), 'g', -1, 32))
		case bool:
			if v {
				el.SetText("True")
			} else {
				el.SetText("False")
			}
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write xml: %w", err)
	}
	return buf.Bytes(), nil
}
