package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseBytes parses a class file held in memory, e.g. a jar entry.
func ParseBytes(data []byte) (*ClassFile, error) {
	return Parse(bytes.NewReader(data))
}

// Parse reads a class file up to and including the class attributes.
// Method bodies are kept as raw attribute data and never decoded.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read version: %w", r.err)
	}

	cp, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}
	cf.ConstantPool = cp

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()
	count := r.readU2()
	cf.Interfaces = make([]uint16, count)
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read class header: %w", r.err)
	}

	if cf.Fields, err = readMembers(r); err != nil {
		return nil, fmt.Errorf("failed to read fields: %w", err)
	}
	if cf.Methods, err = readMembers(r); err != nil {
		return nil, fmt.Errorf("failed to read methods: %w", err)
	}
	if cf.Attributes, err = readAttributes(r); err != nil {
		return nil, fmt.Errorf("failed to read class attributes: %w", err)
	}
	return cf, nil
}

func readMembers(r *reader) ([]MemberInfo, error) {
	count := r.readU2()
	members := make([]MemberInfo, count)
	for i := range members {
		members[i].AccessFlags = AccessFlags(r.readU2())
		members[i].NameIndex = r.readU2()
		members[i].DescriptorIndex = r.readU2()
		attrs, err := readAttributes(r)
		if err != nil {
			return nil, err
		}
		members[i].Attributes = attrs
	}
	return members, r.err
}

func readAttributes(r *reader) ([]AttributeInfo, error) {
	count := r.readU2()
	attrs := make([]AttributeInfo, count)
	for i := range attrs {
		attrs[i].NameIndex = r.readU2()
		length := r.readU4()
		attrs[i].Data = r.readBytes(int(length))
		if r.err != nil {
			return nil, r.err
		}
	}
	return attrs, r.err
}
