package shesmu

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrBadDescriptor = errors.New("bad type descriptor")

// ParseDescriptor parses a compact type descriptor such as "aqs" (list of
// optional string) or "o2id$sversion$s".  The whole string must be
// consumed.
func ParseDescriptor(s string) (Type, error) {
	p := &descParser{s: s}
	typ, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.off != len(s) {
		return nil, p.fail("trailing characters")
	}
	return typ, nil
}

type descParser struct {
	s   string
	off int
}

func (p *descParser) fail(msg string) error {
	return fmt.Errorf("%w %q at offset %d: %s", ErrBadDescriptor, p.s, p.off, msg)
}

func (p *descParser) parse() (Type, error) {
	if p.off >= len(p.s) {
		return nil, p.fail("unexpected end")
	}
	c := p.s[p.off]
	p.off++
	switch c {
	case 'b':
		return TypeBool, nil
	case 'i':
		return TypeInt, nil
	case 'f':
		return TypeFloat, nil
	case 's':
		return TypeString, nil
	case 'd':
		return TypeDate, nil
	case 'p':
		return TypePath, nil
	case 'j':
		return TypeJSON, nil
	case 'A':
		return TypeEmpty, nil
	case 'Q':
		return TypeNothing, nil
	case 'a':
		inner, err := p.parse()
		if err != nil {
			return nil, err
		}
		return NewTypeList(inner), nil
	case 'q':
		inner, err := p.parse()
		if err != nil {
			return nil, err
		}
		return NewTypeOptional(inner), nil
	case 'm':
		key, err := p.parse()
		if err != nil {
			return nil, err
		}
		val, err := p.parse()
		if err != nil {
			return nil, err
		}
		return NewTypeMap(key, val), nil
	case 't':
		n, err := p.count()
		if err != nil {
			return nil, err
		}
		elems := make([]Type, 0, n)
		for range n {
			elem, err := p.parse()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return NewTypeTuple(elems...), nil
	case 'o':
		n, err := p.count()
		if err != nil {
			return nil, err
		}
		fields := make([]Field, 0, n)
		for range n {
			name, err := p.name()
			if err != nil {
				return nil, err
			}
			typ, err := p.parse()
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{name, typ})
		}
		typ := NewTypeObject(fields)
		if IsBad(typ) {
			return nil, p.fail("duplicate field")
		}
		return typ, nil
	}
	p.off--
	return nil, p.fail(fmt.Sprintf("unknown type code %q", c))
}

func (p *descParser) count() (int, error) {
	start := p.off
	for p.off < len(p.s) && p.s[p.off] >= '0' && p.s[p.off] <= '9' {
		p.off++
	}
	if start == p.off {
		return 0, p.fail("expected count")
	}
	return strconv.Atoi(p.s[start:p.off])
}

func (p *descParser) name() (string, error) {
	start := p.off
	for p.off < len(p.s) && p.s[p.off] != '$' {
		c := p.s[p.off]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return "", p.fail("bad field name")
		}
		p.off++
	}
	if start == p.off || p.off == len(p.s) {
		return "", p.fail("expected field name")
	}
	name := p.s[start:p.off]
	p.off++
	return name, nil
}
