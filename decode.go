package nbt

import (
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/scigolib/nbt/internal/core"
	"github.com/scigolib/nbt/internal/mutf8"
)

// Unmarshal decodes a wire-format NBT document in the given byte order into
// the value pointed to by v, driving Go reflection from the byte stream the
// way encoding/json does.
//
// Decoding is tag-strict: every Go kind corresponds to exactly one NBT tag,
// and a mismatch fails with a TagMismatchError rather than converting.
//
//	bool, int8, uint8     Byte
//	int16, uint16         Short
//	int32, uint32         Int
//	int64, uint64,
//	int, uint             Long
//	float32               Float
//	float64               Double
//	string                String (lossy MUTF-8 decode)
//	[]byte, []int8        ByteArray (or a List of Byte)
//	[]int32               IntArray  (or a List of Int)
//	[]int64               LongArray (or a List of Long)
//	other slices          List
//	[N]T                  List of exactly N elements
//	struct, map[string]T  Compound
//	*T                    optional: absent key leaves the pointer nil
//	any                   dynamic dispatch on the stream's tag
//
// Struct fields use the `nbt:"name"` tag, falling back to the field name;
// `nbt:"-"` skips a field. Compound keys with no matching field are skipped
// with the streaming scanner.
//
// Bytes remaining after the root value fail with a TrailingDataError.
func Unmarshal(data []byte, v any, order ByteOrder) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return decodeErrorf("Unmarshal target must be a non-nil pointer, got %T", v)
	}

	d := &decoder{src: data, order: order}
	if len(data) < 1 {
		return ErrEndOfFile
	}
	rootTag := Tag(data[0])
	if rootTag == TagEnd || !rootTag.Valid() {
		return &InvalidTagError{Tag: data[0]}
	}
	if len(data) < 3 {
		return ErrEndOfFile
	}
	nameLen := int(order.Uint16(data[1:]))
	d.pos = 3 + nameLen
	if d.pos > len(data) {
		return ErrEndOfFile
	}
	d.cur = rootTag

	if err := d.value(rv.Elem()); err != nil {
		return err
	}
	if d.pos != len(data) {
		return &TrailingDataError{Bytes: len(data) - d.pos}
	}
	return nil
}

// UnmarshalBE decodes a Java Edition (big-endian) document. See Unmarshal.
func UnmarshalBE(data []byte, v any) error {
	return Unmarshal(data, v, JavaEdition)
}

// UnmarshalLE decodes a Bedrock Edition (little-endian) document. See Unmarshal.
func UnmarshalLE(data []byte, v any) error {
	return Unmarshal(data, v, BedrockEdition)
}

// decoder walks the wire bytes with one data cursor plus the tag that
// applies to the next value (compound entries and list headers carry the
// tag out of band).
type decoder struct {
	src   []byte
	pos   int
	order ByteOrder
	cur   Tag
}

func (d *decoder) need(n int) error {
	if d.pos+n > len(d.src) {
		return ErrEndOfFile
	}
	return nil
}

func (d *decoder) check(expected Tag) error {
	if d.cur != expected {
		return &TagMismatchError{Expected: expected, Actual: d.cur}
	}
	return nil
}

func (d *decoder) readScalar(sz int) (uint64, error) {
	if err := d.need(sz); err != nil {
		return 0, err
	}
	var v uint64
	switch sz {
	case 1:
		v = uint64(d.src[d.pos])
	case 2:
		v = uint64(d.order.Uint16(d.src[d.pos:]))
	case 4:
		v = uint64(d.order.Uint32(d.src[d.pos:]))
	default:
		v = d.order.Uint64(d.src[d.pos:])
	}
	d.pos += sz
	return v, nil
}

func (d *decoder) readString() (string, error) {
	if err := d.need(2); err != nil {
		return "", err
	}
	n := int(d.order.Uint16(d.src[d.pos:]))
	d.pos += 2
	if err := d.need(n); err != nil {
		return "", err
	}
	s := mutf8.DecodeLossy(d.src[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

// readArray consumes a u32 count plus count elements and returns the raw
// element bytes.
func (d *decoder) readArray(elemSize int) ([]byte, error) {
	if err := d.need(4); err != nil {
		return nil, err
	}
	count := int(d.order.Uint32(d.src[d.pos:]))
	d.pos += 4
	total := count * elemSize
	if err := d.need(total); err != nil {
		return nil, err
	}
	b := d.src[d.pos : d.pos+total]
	d.pos += total
	return b, nil
}

// listHeader consumes a list's element tag and count, validating both.
func (d *decoder) listHeader() (Tag, int, error) {
	if err := d.need(5); err != nil {
		return TagEnd, 0, err
	}
	elem := Tag(d.src[d.pos])
	if !elem.Valid() {
		return TagEnd, 0, &InvalidTagError{Tag: uint8(elem)}
	}
	count := int(d.order.Uint32(d.src[d.pos+1:]))
	if elem == TagEnd && count > 0 {
		return TagEnd, 0, &InvalidTagError{Tag: uint8(TagEnd)}
	}
	d.pos += 5
	return elem, count, nil
}

// skip advances past the value of the current tag without decoding it.
func (d *decoder) skip() error {
	next, err := core.Skip(d.src, d.pos, d.cur, d.order)
	if err != nil {
		return err
	}
	d.pos = next
	return nil
}

func (d *decoder) value(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Bool:
		if err := d.check(TagByte); err != nil {
			return err
		}
		n, err := d.readScalar(1)
		if err != nil {
			return err
		}
		rv.SetBool(n != 0)
		return nil

	case reflect.Int8:
		return d.setInt(rv, TagByte, 1)
	case reflect.Int16:
		return d.setInt(rv, TagShort, 2)
	case reflect.Int32:
		return d.setInt(rv, TagInt, 4)
	case reflect.Int64, reflect.Int:
		return d.setInt(rv, TagLong, 8)
	case reflect.Uint8:
		return d.setUint(rv, TagByte, 1)
	case reflect.Uint16:
		return d.setUint(rv, TagShort, 2)
	case reflect.Uint32:
		return d.setUint(rv, TagInt, 4)
	case reflect.Uint64, reflect.Uint:
		return d.setUint(rv, TagLong, 8)

	case reflect.Float32:
		if err := d.check(TagFloat); err != nil {
			return err
		}
		n, err := d.readScalar(4)
		if err != nil {
			return err
		}
		rv.SetFloat(float64(math.Float32frombits(uint32(n))))
		return nil
	case reflect.Float64:
		if err := d.check(TagDouble); err != nil {
			return err
		}
		n, err := d.readScalar(8)
		if err != nil {
			return err
		}
		rv.SetFloat(math.Float64frombits(n))
		return nil

	case reflect.String:
		if err := d.check(TagString); err != nil {
			return err
		}
		s, err := d.readString()
		if err != nil {
			return err
		}
		rv.SetString(s)
		return nil

	case reflect.Slice:
		return d.sliceValue(rv)
	case reflect.Array:
		return d.arrayValue(rv)
	case reflect.Map:
		return d.mapValue(rv)
	case reflect.Struct:
		return d.structValue(rv)

	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return d.value(rv.Elem())

	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return decodeErrorf("cannot decode into non-empty interface %s", rv.Type())
		}
		got, err := d.anyValue()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(got))
		return nil

	default:
		return decodeErrorf("unsupported type %s", rv.Type())
	}
}

func (d *decoder) setInt(rv reflect.Value, tag Tag, sz int) error {
	if err := d.check(tag); err != nil {
		return err
	}
	n, err := d.readScalar(sz)
	if err != nil {
		return err
	}
	// Sign-extend from the wire width.
	shift := uint(64 - 8*sz)
	rv.SetInt(int64(n<<shift) >> shift)
	return nil
}

func (d *decoder) setUint(rv reflect.Value, tag Tag, sz int) error {
	if err := d.check(tag); err != nil {
		return err
	}
	n, err := d.readScalar(sz)
	if err != nil {
		return err
	}
	rv.SetUint(n)
	return nil
}

func (d *decoder) sliceValue(rv reflect.Value) error {
	elemKind := rv.Type().Elem().Kind()

	// The dedicated array tags decode straight into their natural slices.
	switch {
	case d.cur == TagByteArray && (elemKind == reflect.Uint8 || elemKind == reflect.Int8):
		b, err := d.readArray(1)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(rv.Type(), len(b), len(b))
		for i, c := range b {
			if elemKind == reflect.Uint8 {
				out.Index(i).SetUint(uint64(c))
			} else {
				out.Index(i).SetInt(int64(int8(c)))
			}
		}
		rv.Set(out)
		return nil
	case d.cur == TagIntArray && elemKind == reflect.Int32:
		b, err := d.readArray(4)
		if err != nil {
			return err
		}
		out := make([]int32, len(b)/4)
		for i := range out {
			out[i] = int32(d.order.Uint32(b[i*4:]))
		}
		rv.Set(reflect.ValueOf(out).Convert(rv.Type()))
		return nil
	case d.cur == TagLongArray && elemKind == reflect.Int64:
		b, err := d.readArray(8)
		if err != nil {
			return err
		}
		out := make([]int64, len(b)/8)
		for i := range out {
			out[i] = int64(d.order.Uint64(b[i*8:]))
		}
		rv.Set(reflect.ValueOf(out).Convert(rv.Type()))
		return nil
	}

	if err := d.check(TagList); err != nil {
		return err
	}
	elem, count, err := d.listHeader()
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(rv.Type(), count, count)
	for i := 0; i < count; i++ {
		d.cur = elem
		if err := d.value(out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func (d *decoder) arrayValue(rv reflect.Value) error {
	if err := d.check(TagList); err != nil {
		return err
	}
	elem, count, err := d.listHeader()
	if err != nil {
		return err
	}
	if count != rv.Len() {
		return decodeErrorf("list length %d does not fit array %s", count, rv.Type())
	}
	for i := 0; i < count; i++ {
		d.cur = elem
		if err := d.value(rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) mapValue(rv reflect.Value) error {
	if err := d.check(TagCompound); err != nil {
		return err
	}
	t := rv.Type()
	if t.Key().Kind() != reflect.String {
		return decodeErrorf("map key type %s is not a string", t.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(t))
	}
	for {
		tag, key, done, err := d.entryHeader()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		d.cur = tag
		ev := reflect.New(t.Elem()).Elem()
		if err := d.value(ev); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), ev)
	}
}

func (d *decoder) structValue(rv reflect.Value) error {
	if err := d.check(TagCompound); err != nil {
		return err
	}
	fields := cachedFields(rv.Type())
	for {
		tag, key, done, err := d.entryHeader()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		idx, ok := fields[key]
		if !ok {
			d.cur = tag
			if err := d.skip(); err != nil {
				return err
			}
			continue
		}
		d.cur = tag
		if err := d.value(rv.Field(idx)); err != nil {
			return err
		}
	}
}

// entryHeader consumes one compound entry's tag and name. done is true when
// the End sentinel terminated the compound.
func (d *decoder) entryHeader() (tag Tag, key string, done bool, err error) {
	if err = d.need(1); err != nil {
		return
	}
	tag = Tag(d.src[d.pos])
	d.pos++
	if tag == TagEnd {
		done = true
		return
	}
	if !tag.Valid() {
		err = &InvalidTagError{Tag: uint8(tag)}
		return
	}
	key, err = d.readString()
	return
}

// anyValue decodes the current value dynamically, mapping each tag onto its
// natural Go type.
func (d *decoder) anyValue() (any, error) {
	switch d.cur {
	case TagByte:
		n, err := d.readScalar(1)
		return int8(n), err
	case TagShort:
		n, err := d.readScalar(2)
		return int16(n), err
	case TagInt:
		n, err := d.readScalar(4)
		return int32(n), err
	case TagLong:
		n, err := d.readScalar(8)
		return int64(n), err
	case TagFloat:
		n, err := d.readScalar(4)
		return math.Float32frombits(uint32(n)), err
	case TagDouble:
		n, err := d.readScalar(8)
		return math.Float64frombits(n), err
	case TagString:
		return d.readString()
	case TagByteArray:
		b, err := d.readArray(1)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	case TagIntArray:
		b, err := d.readArray(4)
		if err != nil {
			return nil, err
		}
		out := make([]int32, len(b)/4)
		for i := range out {
			out[i] = int32(d.order.Uint32(b[i*4:]))
		}
		return out, nil
	case TagLongArray:
		b, err := d.readArray(8)
		if err != nil {
			return nil, err
		}
		out := make([]int64, len(b)/8)
		for i := range out {
			out[i] = int64(d.order.Uint64(b[i*8:]))
		}
		return out, nil
	case TagList:
		elem, count, err := d.listHeader()
		if err != nil {
			return nil, err
		}
		out := make([]any, count)
		for i := 0; i < count; i++ {
			d.cur = elem
			out[i], err = d.anyValue()
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case TagCompound:
		out := make(map[string]any)
		for {
			tag, key, done, err := d.entryHeader()
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
			d.cur = tag
			v, err := d.anyValue()
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
	default:
		return nil, &InvalidTagError{Tag: uint8(d.cur)}
	}
}

// fieldCache maps struct types to their name→field-index tables.
var fieldCache sync.Map // reflect.Type -> map[string]int

// cachedFields returns the compound-key lookup table for a struct type.
func cachedFields(t reflect.Type) map[string]int {
	if m, ok := fieldCache.Load(t); ok {
		return m.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("nbt"); ok {
			base, _, _ := strings.Cut(tag, ",")
			if base == "-" {
				continue
			}
			if base != "" {
				name = base
			}
		}
		m[name] = i
	}
	fieldCache.Store(t, m)
	return m
}
