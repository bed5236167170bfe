package classfile

import "fmt"

// ConstantPoolEntry keeps the parts of a constant the reader needs: the
// text of Utf8 entries and the index operands of the referencing kinds.
// Numeric values are skipped.
type ConstantPoolEntry struct {
	Tag    ConstantTag
	Utf8   string
	Index1 uint16
	Index2 uint16
}

// ConstantPool is indexed from 1 like the class file format; slot 0 and the
// second slot of long and double constants are zero entries.
type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) entry(index uint16, tag ConstantTag) (ConstantPoolEntry, bool) {
	if int(index) <= 0 || int(index) >= len(cp) || cp[index].Tag != tag {
		return ConstantPoolEntry{}, false
	}
	return cp[index], true
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	e, _ := cp.entry(index, ConstantUtf8)
	return e.Utf8
}

// GetClassName returns the internal name (a/b/C) of a Class constant.
func (cp ConstantPool) GetClassName(index uint16) string {
	e, ok := cp.entry(index, ConstantClass)
	if !ok {
		return ""
	}
	return cp.GetUtf8(e.Index1)
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", r.err)
	}
	cp := make(ConstantPool, count)
	for i := 1; i < int(count); i++ {
		tag := ConstantTag(r.readU1())
		e := ConstantPoolEntry{Tag: tag}
		switch tag {
		case ConstantUtf8:
			e.Utf8 = decodeModifiedUTF8(r.readBytes(int(r.readU2())))
		case ConstantInteger, ConstantFloat:
			r.readBytes(4)
		case ConstantLong, ConstantDouble:
			r.readBytes(8)
		case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
			e.Index1 = r.readU2()
		case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
			ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
			e.Index1 = r.readU2()
			e.Index2 = r.readU2()
		case ConstantMethodHandle:
			e.Index1 = uint16(r.readU1())
			e.Index2 = r.readU2()
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
		if r.err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", i, r.err)
		}
		cp[i] = e
		if tag == ConstantLong || tag == ConstantDouble {
			i++
		}
	}
	return cp, nil
}

// decodeModifiedUTF8 converts the JVM's modified UTF-8 to a Go string. The
// two differences from standard UTF-8 are the two-byte encoding of NUL and
// surrogate pairs encoded as separate three-byte sequences.
func decodeModifiedUTF8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
			if r >= 0xD800 && r <= 0xDBFF && i+2 < len(b) && b[i] == 0xED {
				low := rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					r = 0x10000 + (r-0xD800)<<10 + (low - 0xDC00)
					i += 3
				}
			}
			runes = append(runes, r)
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
