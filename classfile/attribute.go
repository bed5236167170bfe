package classfile

import (
	"bytes"
	"errors"
)

// InnerClassEntry is one row of the InnerClasses attribute. OuterClass is
// empty for local and anonymous classes, InnerName for anonymous ones.
type InnerClassEntry struct {
	InnerClass  string
	OuterClass  string
	InnerName   string
	AccessFlags AccessFlags
}

func parseInnerClasses(data []byte, cp ConstantPool) []InnerClassEntry {
	r := &reader{r: bytes.NewReader(data)}
	count := r.readU2()
	entries := make([]InnerClassEntry, 0, count)
	for i := 0; i < int(count); i++ {
		inner := r.readU2()
		outer := r.readU2()
		name := r.readU2()
		flags := r.readU2()
		if r.err != nil {
			break
		}
		entries = append(entries, InnerClassEntry{
			InnerClass:  cp.GetClassName(inner),
			OuterClass:  cp.GetClassName(outer),
			InnerName:   cp.GetUtf8(name),
			AccessFlags: AccessFlags(flags),
		})
	}
	return entries
}

// annotationTypes collects the annotation types from the Runtime(In)Visible
// annotation attributes in attrs. Element values are skipped; a malformed
// attribute contributes the annotations read before the damage.
func annotationTypes(attrs []AttributeInfo, cp ConstantPool) []string {
	var result []string
	for _, attr := range attrs {
		switch cp.GetUtf8(attr.NameIndex) {
		case AttrRuntimeVisibleAnnotations, AttrRuntimeInvisibleAnnotations:
		default:
			continue
		}
		r := &reader{r: bytes.NewReader(attr.Data)}
		count := r.readU2()
		for i := 0; i < int(count) && r.err == nil; i++ {
			desc := cp.GetUtf8(r.readU2())
			if err := skipElementPairs(r); err != nil {
				break
			}
			if ft := ParseFieldDescriptor(desc); ft != nil && ft.ClassName != "" {
				result = append(result, ft.ClassName)
			}
		}
	}
	return result
}

var errBadElementValue = errors.New("malformed annotation element value")

func skipElementPairs(r *reader) error {
	pairs := r.readU2()
	for i := 0; i < int(pairs); i++ {
		r.readU2()
		if err := skipElementValue(r); err != nil {
			return err
		}
	}
	return r.err
}

func skipElementValue(r *reader) error {
	tag := r.readU1()
	if r.err != nil {
		return r.err
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		r.readU2()
	case 'e':
		r.readU2()
		r.readU2()
	case '@':
		r.readU2()
		return skipElementPairs(r)
	case '[':
		n := r.readU2()
		for i := 0; i < int(n); i++ {
			if err := skipElementValue(r); err != nil {
				return err
			}
		}
	default:
		return errBadElementValue
	}
	return r.err
}
