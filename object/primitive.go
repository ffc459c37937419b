package object

import (
	"math"
	"strconv"
)

var (
	True  = &Boolean{value: true}
	False = &Boolean{value: false}
)

// Boolean is a JVM boolean.
type Boolean struct {
	base
	value bool
}

func NewBoolean(value bool) *Boolean {
	if value {
		return True
	}
	return False
}

func (b *Boolean) Type() Type      { return BOOLEAN }
func (b *Boolean) Value() bool     { return b.value }
func (b *Boolean) Interface() any  { return b.value }
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.value) }
func (b *Boolean) String() string  { return b.Inspect() }
func (b *Boolean) Copy() Value     { return &Boolean{value: b.value} }
func (b *Boolean) Equals(o Value) bool {
	other, ok := o.(*Boolean)
	return ok && other.value == b.value
}

// Byte is a signed 8-bit JVM byte.
type Byte struct {
	base
	value int8
}

func NewByte(value int8) *Byte {
	return &Byte{value: value}
}

func (b *Byte) Type() Type      { return BYTE }
func (b *Byte) Value() int8     { return b.value }
func (b *Byte) Interface() any  { return b.value }
func (b *Byte) Inspect() string { return strconv.Itoa(int(b.value)) }
func (b *Byte) String() string  { return b.Inspect() }
func (b *Byte) Copy() Value     { return &Byte{value: b.value} }
func (b *Byte) Equals(o Value) bool {
	other, ok := o.(*Byte)
	return ok && other.value == b.value
}

// Char is an unsigned 16-bit UTF-16 code unit.
type Char struct {
	base
	value uint16
}

func NewChar(value uint16) *Char {
	return &Char{value: value}
}

func (c *Char) Type() Type      { return CHAR }
func (c *Char) Value() uint16   { return c.value }
func (c *Char) Interface() any  { return c.value }
func (c *Char) Inspect() string { return strconv.QuoteRune(rune(c.value)) }
func (c *Char) String() string  { return string(rune(c.value)) }
func (c *Char) Copy() Value     { return &Char{value: c.value} }
func (c *Char) Equals(o Value) bool {
	other, ok := o.(*Char)
	return ok && other.value == c.value
}

// Short is a signed 16-bit JVM short.
type Short struct {
	base
	value int16
}

func NewShort(value int16) *Short {
	return &Short{value: value}
}

func (s *Short) Type() Type      { return SHORT }
func (s *Short) Value() int16    { return s.value }
func (s *Short) Interface() any  { return s.value }
func (s *Short) Inspect() string { return strconv.Itoa(int(s.value)) }
func (s *Short) String() string  { return s.Inspect() }
func (s *Short) Copy() Value     { return &Short{value: s.value} }
func (s *Short) Equals(o Value) bool {
	other, ok := o.(*Short)
	return ok && other.value == s.value
}

// Int is a signed 32-bit JVM int.
type Int struct {
	base
	value int32
}

func NewInt(value int32) *Int {
	return &Int{value: value}
}

func (i *Int) Type() Type      { return INT }
func (i *Int) Value() int32    { return i.value }
func (i *Int) Interface() any  { return i.value }
func (i *Int) Inspect() string { return strconv.Itoa(int(i.value)) }
func (i *Int) String() string  { return i.Inspect() }
func (i *Int) Copy() Value     { return &Int{value: i.value} }
func (i *Int) Equals(o Value) bool {
	other, ok := o.(*Int)
	return ok && other.value == i.value
}

// Long is a signed 64-bit JVM long.
type Long struct {
	base
	value int64
}

func NewLong(value int64) *Long {
	return &Long{value: value}
}

func (l *Long) Type() Type      { return LONG }
func (l *Long) Value() int64    { return l.value }
func (l *Long) Interface() any  { return l.value }
func (l *Long) Inspect() string { return strconv.FormatInt(l.value, 10) + "L" }
func (l *Long) String() string  { return strconv.FormatInt(l.value, 10) }
func (l *Long) Copy() Value     { return &Long{value: l.value} }
func (l *Long) Equals(o Value) bool {
	other, ok := o.(*Long)
	return ok && other.value == l.value
}

// Float is a 32-bit IEEE 754 JVM float.
type Float struct {
	base
	value float32
}

func NewFloat(value float32) *Float {
	return &Float{value: value}
}

func (f *Float) Type() Type      { return FLOAT }
func (f *Float) Value() float32  { return f.value }
func (f *Float) Interface() any  { return f.value }
func (f *Float) Inspect() string { return strconv.FormatFloat(float64(f.value), 'g', -1, 32) + "f" }
func (f *Float) String() string  { return strconv.FormatFloat(float64(f.value), 'g', -1, 32) }
func (f *Float) Copy() Value     { return &Float{value: f.value} }

// Equals compares bit patterns, so NaN equals NaN and 0.0 differs from -0.0.
func (f *Float) Equals(o Value) bool {
	other, ok := o.(*Float)
	return ok && math.Float32bits(other.value) == math.Float32bits(f.value)
}

// Double is a 64-bit IEEE 754 JVM double.
type Double struct {
	base
	value float64
}

func NewDouble(value float64) *Double {
	return &Double{value: value}
}

func (d *Double) Type() Type      { return DOUBLE }
func (d *Double) Value() float64  { return d.value }
func (d *Double) Interface() any  { return d.value }
func (d *Double) Inspect() string { return strconv.FormatFloat(d.value, 'g', -1, 64) + "d" }
func (d *Double) String() string  { return strconv.FormatFloat(d.value, 'g', -1, 64) }
func (d *Double) Copy() Value     { return &Double{value: d.value} }

// Equals compares bit patterns, like Float.Equals.
func (d *Double) Equals(o Value) bool {
	other, ok := o.(*Double)
	return ok && math.Float64bits(other.value) == math.Float64bits(d.value)
}
