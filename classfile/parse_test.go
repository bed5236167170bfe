package classfile

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

// classBuilder assembles minimal class files for tests.
type classBuilder struct {
	pool    bytes.Buffer
	count   uint16
	utf8s   map[string]uint16
	classes map[string]uint16
}

func newClassBuilder() *classBuilder {
	return &classBuilder{count: 1, utf8s: map[string]uint16{}, classes: map[string]uint16{}}
}

func (b *classBuilder) utf8(s string) uint16 {
	if idx, ok := b.utf8s[s]; ok {
		return idx
	}
	b.pool.WriteByte(byte(ConstantUtf8))
	binary.Write(&b.pool, binary.BigEndian, uint16(len(s)))
	b.pool.WriteString(s)
	b.utf8s[s] = b.count
	b.count++
	return b.utf8s[s]
}

func (b *classBuilder) class(name string) uint16 {
	if idx, ok := b.classes[name]; ok {
		return idx
	}
	nameIdx := b.utf8(name)
	b.pool.WriteByte(byte(ConstantClass))
	binary.Write(&b.pool, binary.BigEndian, nameIdx)
	b.classes[name] = b.count
	b.count++
	return b.classes[name]
}

func (b *classBuilder) long() {
	b.pool.WriteByte(byte(ConstantLong))
	b.pool.Write(make([]byte, 8))
	b.count += 2
}

type testAttr struct {
	name string
	data []byte
}

type testMember struct {
	flags AccessFlags
	name  string
	desc  string
	attrs []testAttr
}

func u2(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

// annotations encodes a RuntimeVisibleAnnotations body. Each annotation
// carries one enum-valued element so the skipper is exercised.
func (b *classBuilder) annotations(descs ...string) []byte {
	var buf bytes.Buffer
	buf.Write(u2(uint16(len(descs))))
	for _, d := range descs {
		buf.Write(u2(b.utf8(d)))
		buf.Write(u2(1))
		buf.Write(u2(b.utf8("value")))
		buf.WriteByte('e')
		buf.Write(u2(b.utf8("Ljavax/persistence/AccessType;")))
		buf.Write(u2(b.utf8("FIELD")))
	}
	return buf.Bytes()
}

func (b *classBuilder) build(flags AccessFlags, this, super string, fields, methods []testMember, attrs []testAttr) []byte {
	thisIdx := b.class(this)
	var superIdx uint16
	if super != "" {
		superIdx = b.class(super)
	}

	var body bytes.Buffer
	writeAttrs := func(attrs []testAttr) {
		body.Write(u2(uint16(len(attrs))))
		for _, a := range attrs {
			body.Write(u2(b.utf8(a.name)))
			binary.Write(&body, binary.BigEndian, uint32(len(a.data)))
			body.Write(a.data)
		}
	}
	writeMembers := func(members []testMember) {
		body.Write(u2(uint16(len(members))))
		for _, m := range members {
			body.Write(u2(uint16(m.flags)))
			body.Write(u2(b.utf8(m.name)))
			body.Write(u2(b.utf8(m.desc)))
			writeAttrs(m.attrs)
		}
	}

	body.Write(u2(uint16(flags)))
	body.Write(u2(thisIdx))
	body.Write(u2(superIdx))
	body.Write(u2(0))
	writeMembers(fields)
	writeMembers(methods)
	writeAttrs(attrs)

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(Magic))
	out.Write(u2(0))
	out.Write(u2(61))
	out.Write(u2(b.count))
	out.Write(b.pool.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := ParseBytes([]byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 61})
	if err == nil || !strings.Contains(err.Error(), "invalid magic") {
		t.Fatalf("expected invalid magic error, got %v", err)
	}
}

func TestParseTruncated(t *testing.T) {
	b := newClassBuilder()
	data := b.build(AccPublic, "com/example/Person", "java/lang/Object", nil, nil, nil)
	if _, err := ParseBytes(data[:len(data)-3]); err == nil {
		t.Fatal("expected error for truncated class file")
	}
}

func TestParseClassHeader(t *testing.T) {
	b := newClassBuilder()
	b.long()
	entity := b.annotations("Ljavax/persistence/Entity;")
	fields := []testMember{
		{flags: AccPrivate, name: "name", desc: "Ljava/lang/String;"},
		{flags: AccPublic | AccStatic, name: "COUNT", desc: "I", attrs: []testAttr{{name: AttrDeprecated}}},
	}
	methods := []testMember{
		{flags: AccPublic, name: "<init>", desc: "()V"},
		{flags: AccPublic, name: "getName", desc: "()Ljava/lang/String;",
			attrs: []testAttr{{name: AttrRuntimeVisibleAnnotations, data: b.annotations("Lnet/ftlines/metagen/annot/Property;")}}},
		{flags: AccPublic | AccSynthetic | AccBridge, name: "compareTo", desc: "(Ljava/lang/Object;)I"},
	}
	data := b.build(AccPublic|AccFinal, "com/example/Person", "java/lang/Object", fields, methods,
		[]testAttr{{name: AttrRuntimeVisibleAnnotations, data: entity}})

	cf, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := cf.ClassName(); got != "com/example/Person" {
		t.Errorf("ClassName = %q", got)
	}
	if got := cf.SuperClassName(); got != "java/lang/Object" {
		t.Errorf("SuperClassName = %q", got)
	}
	if !cf.AccessFlags.IsPublic() || !cf.AccessFlags.IsFinal() {
		t.Errorf("unexpected access flags %#x", cf.AccessFlags)
	}
	if got := cf.Annotations(); len(got) != 1 || got[0] != "javax/persistence/Entity" {
		t.Errorf("Annotations = %v", got)
	}

	if len(cf.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(cf.Fields))
	}
	if got := cf.Fields[0].Name(cf.ConstantPool); got != "name" {
		t.Errorf("field name = %q", got)
	}
	if !cf.Fields[1].IsDeprecated(cf.ConstantPool) || cf.Fields[0].IsDeprecated(cf.ConstantPool) {
		t.Error("Deprecated attribute not attributed to the right field")
	}

	if !cf.Methods[0].IsSpecial(cf.ConstantPool) {
		t.Error("<init> should be special")
	}
	if got := cf.Methods[1].Annotations(cf.ConstantPool); len(got) != 1 || got[0] != "net/ftlines/metagen/annot/Property" {
		t.Errorf("method annotations = %v", got)
	}
	if !cf.Methods[2].IsBridge() || !cf.Methods[2].IsSynthetic() {
		t.Error("bridge flags lost")
	}
}

func TestParseInnerClasses(t *testing.T) {
	b := newClassBuilder()
	outer := b.class("com/example/Outer")
	inner := b.class("com/example/Outer$Inner")
	local := b.class("com/example/Outer$1Local")

	var attr bytes.Buffer
	attr.Write(u2(2))
	attr.Write(u2(inner))
	attr.Write(u2(outer))
	attr.Write(u2(b.utf8("Inner")))
	attr.Write(u2(uint16(AccPublic | AccStatic)))
	attr.Write(u2(local))
	attr.Write(u2(0))
	attr.Write(u2(b.utf8("Local")))
	attr.Write(u2(0))

	data := b.build(AccPublic, "com/example/Outer$Inner", "java/lang/Object", nil, nil,
		[]testAttr{{name: AttrInnerClasses, data: attr.Bytes()}})
	cf, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	entries := cf.InnerClasses()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	want := InnerClassEntry{
		InnerClass:  "com/example/Outer$Inner",
		OuterClass:  "com/example/Outer",
		InnerName:   "Inner",
		AccessFlags: AccPublic | AccStatic,
	}
	if entries[0] != want {
		t.Errorf("entry 0 = %+v, want %+v", entries[0], want)
	}
	if entries[1].OuterClass != "" {
		t.Errorf("local class should have no outer class, got %q", entries[1].OuterClass)
	}
}

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"I", "int"},
		{"Z", "boolean"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[[J", "long[][]"},
		{"[Ljava/util/Map$Entry;", "java.util.Map$Entry[]"},
	}
	for _, tt := range tests {
		ft := ParseFieldDescriptor(tt.desc)
		if ft == nil {
			t.Errorf("ParseFieldDescriptor(%q) = nil", tt.desc)
			continue
		}
		if got := ft.String(); got != tt.want {
			t.Errorf("ParseFieldDescriptor(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}

	for _, bad := range []string{"", "L;", "Ljava/lang/String", "Q", "II"} {
		if ft := ParseFieldDescriptor(bad); ft != nil {
			t.Errorf("ParseFieldDescriptor(%q) = %v, want nil", bad, ft)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	md := ParseMethodDescriptor("(I[Ljava/lang/String;)Ljava/util/List;")
	if md == nil {
		t.Fatal("expected descriptor")
	}
	if len(md.Parameters) != 2 || md.Parameters[1].String() != "java.lang.String[]" {
		t.Errorf("parameters = %v", md.Parameters)
	}
	if md.ReturnType == nil || md.ReturnType.String() != "java.util.List" {
		t.Errorf("return type = %v", md.ReturnType)
	}

	void := ParseMethodDescriptor("()V")
	if void == nil || void.ReturnType != nil || len(void.Parameters) != 0 {
		t.Errorf("()V parsed as %+v", void)
	}

	if ParseMethodDescriptor("(I") != nil {
		t.Error("unterminated descriptor should fail")
	}
}

func TestDecodeModifiedUTF8(t *testing.T) {
	if got := decodeModifiedUTF8([]byte{0xC0, 0x80}); got != "\x00" {
		t.Errorf("NUL decoded as %q", got)
	}
	// U+1F600 as a surrogate pair.
	pair := []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}
	if got := decodeModifiedUTF8(pair); got != "\U0001F600" {
		t.Errorf("surrogate pair decoded as %q", got)
	}
	if got := decodeModifiedUTF8([]byte("Größe")); got != "Größe" {
		t.Errorf("got %q", got)
	}
}
