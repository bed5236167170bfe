package classfile

// ClassFile is the subset of a JVM class file needed to describe a type's
// declaration: names, flags, members and their annotations.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []MemberInfo
	Methods      []MemberInfo
	Attributes   []AttributeInfo
}

// MemberInfo is a field_info or method_info structure; both share the
// same layout.
type MemberInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

type AttributeInfo struct {
	NameIndex uint16
	Data      []byte
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool {
	return cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsEnum() bool {
	return cf.AccessFlags.IsEnum()
}

func (cf *ClassFile) IsModule() bool {
	return cf.AccessFlags.IsModule()
}

func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	return findAttribute(cf.Attributes, cf.ConstantPool, name)
}

// Annotations returns the binary names of the class's runtime visible and
// invisible annotations, e.g. "javax/persistence/Entity".
func (cf *ClassFile) Annotations() []string {
	return annotationTypes(cf.Attributes, cf.ConstantPool)
}

func (cf *ClassFile) IsDeprecated() bool {
	return cf.GetAttribute(AttrDeprecated) != nil
}

// InnerClasses decodes the InnerClasses attribute, or returns nil.
func (cf *ClassFile) InnerClasses() []InnerClassEntry {
	attr := cf.GetAttribute(AttrInnerClasses)
	if attr == nil {
		return nil
	}
	return parseInnerClasses(attr.Data, cf.ConstantPool)
}

func (cf *ClassFile) SourceFile() string {
	attr := cf.GetAttribute(AttrSourceFile)
	if attr == nil || len(attr.Data) < 2 {
		return ""
	}
	return cf.ConstantPool.GetUtf8(uint16(attr.Data[0])<<8 | uint16(attr.Data[1]))
}

func (m *MemberInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(m.NameIndex)
}

func (m *MemberInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(m.DescriptorIndex)
}

func (m *MemberInfo) Annotations(cp ConstantPool) []string {
	return annotationTypes(m.Attributes, cp)
}

func (m *MemberInfo) IsDeprecated(cp ConstantPool) bool {
	return findAttribute(m.Attributes, cp, AttrDeprecated) != nil
}

func (m *MemberInfo) IsSynthetic() bool { return m.AccessFlags.IsSynthetic() }
func (m *MemberInfo) IsBridge() bool    { return m.AccessFlags.IsBridge() }
func (m *MemberInfo) IsStatic() bool    { return m.AccessFlags.IsStatic() }

// IsSpecial reports whether a method is a constructor or class initializer.
func (m *MemberInfo) IsSpecial(cp ConstantPool) bool {
	name := m.Name(cp)
	return name == "<init>" || name == "<clinit>"
}

func findAttribute(attrs []AttributeInfo, cp ConstantPool, name string) *AttributeInfo {
	for i := range attrs {
		if cp.GetUtf8(attrs[i].NameIndex) == name {
			return &attrs[i]
		}
	}
	return nil
}
