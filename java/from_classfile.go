package java

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dhamidi/metagen/classfile"
)

func ClassModelFromFile(path string) (*ClassModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ClassModelFromReader(f)
}

func ClassModelFromReader(r io.Reader) (*ClassModel, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf), nil
}

// ClassModelFromClassFile describes a compiled type. Member types are
// named with '.' using the InnerClasses attribute; local and anonymous
// classes keep their binary name and are marked IsLocal. Member types are
// erased: generic signatures are not read.
func ClassModelFromClassFile(cf *classfile.ClassFile) *ClassModel {
	internal := cf.ClassName()
	names := newBinaryNames(cf.InnerClasses())

	pkg := ""
	if i := strings.LastIndex(internal, "/"); i >= 0 {
		pkg = classfile.InternalToSourceName(internal[:i])
	}

	model := &ClassModel{
		Name:         names.sourceName(internal),
		Package:      pkg,
		Visibility:   visibilityFromAccessFlags(cf.AccessFlags),
		Kind:         classKindFromClassFile(cf),
		IsFinal:      cf.AccessFlags.IsFinal(),
		IsAbstract:   cf.AccessFlags.IsAbstract(),
		SourceFile:   cf.SourceFile(),
		Annotations:  annotationModels(cf.Annotations()),
		IsDeprecated: cf.IsDeprecated(),
	}
	model.IsDeprecated = model.IsDeprecated || model.HasAnnotation(deprecatedAnnotation)
	_, model.SimpleName = splitClassName(model.Name)

	if entry, ok := names.entries[internal]; ok {
		model.Visibility = visibilityFromAccessFlags(entry.AccessFlags)
		model.IsStatic = entry.AccessFlags.IsStatic()
		if entry.OuterClass == "" {
			model.IsLocal = true
			model.SimpleName = entry.InnerName
		} else {
			model.EnclosingClass = names.sourceName(entry.OuterClass)
			model.SimpleName = entry.InnerName
		}
	}

	if super := cf.SuperClassName(); super != "" {
		model.SuperClass = names.sourceName(super)
	}
	for _, iface := range cf.InterfaceNames() {
		model.Interfaces = append(model.Interfaces, names.sourceName(iface))
	}

	for _, entry := range names.ordered {
		if entry.OuterClass != internal || entry.InnerName == "" {
			continue
		}
		model.InnerClasses = append(model.InnerClasses, InnerClassModel{
			InnerClass: names.sourceName(entry.InnerClass),
			OuterClass: model.Name,
			InnerName:  entry.InnerName,
			Visibility: visibilityFromAccessFlags(entry.AccessFlags),
			IsStatic:   entry.AccessFlags.IsStatic(),
		})
	}

	cp := cf.ConstantPool
	for i := range cf.Fields {
		field := &cf.Fields[i]
		if field.IsSynthetic() {
			continue
		}
		model.Fields = append(model.Fields, fieldModelFromMember(field, cp, names))
	}
	for i := range cf.Methods {
		method := &cf.Methods[i]
		if method.IsSynthetic() || method.IsBridge() || method.IsSpecial(cp) {
			continue
		}
		model.Methods = append(model.Methods, methodModelFromMember(method, cp, names))
	}

	return model
}

const deprecatedAnnotation = "java.lang.Deprecated"

// binaryNames maps internal class names to source names using the
// entries of an InnerClasses attribute.
type binaryNames struct {
	entries map[string]classfile.InnerClassEntry
	ordered []classfile.InnerClassEntry
}

func newBinaryNames(entries []classfile.InnerClassEntry) *binaryNames {
	n := &binaryNames{entries: make(map[string]classfile.InnerClassEntry, len(entries)), ordered: entries}
	for _, e := range entries {
		n.entries[e.InnerClass] = e
	}
	return n
}

func (n *binaryNames) sourceName(internal string) string {
	return n.resolve(internal, 0)
}

func (n *binaryNames) resolve(internal string, depth int) string {
	entry, ok := n.entries[internal]
	if !ok || entry.OuterClass == "" || entry.InnerName == "" || depth > len(n.entries) {
		return classfile.InternalToSourceName(internal)
	}
	return n.resolve(entry.OuterClass, depth+1) + "." + entry.InnerName
}

func visibilityFromAccessFlags(flags classfile.AccessFlags) Visibility {
	switch {
	case flags.IsPublic():
		return VisibilityPublic
	case flags.IsProtected():
		return VisibilityProtected
	case flags.IsPrivate():
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func classKindFromClassFile(cf *classfile.ClassFile) ClassKind {
	switch {
	case cf.IsAnnotation():
		return ClassKindAnnotation
	case cf.IsEnum():
		return ClassKindEnum
	case cf.IsInterface():
		return ClassKindInterface
	case cf.SuperClassName() == "java/lang/Record":
		return ClassKindRecord
	}
	return ClassKindClass
}

func annotationModels(internalNames []string) []AnnotationModel {
	if len(internalNames) == 0 {
		return nil
	}
	result := make([]AnnotationModel, len(internalNames))
	for i, name := range internalNames {
		result[i] = AnnotationModel{Type: classfile.InternalToSourceName(name)}
	}
	return result
}

func fieldModelFromMember(f *classfile.MemberInfo, cp classfile.ConstantPool, names *binaryNames) FieldModel {
	model := FieldModel{
		Name:         f.Name(cp),
		Visibility:   visibilityFromAccessFlags(f.AccessFlags),
		IsStatic:     f.IsStatic(),
		IsFinal:      f.AccessFlags.IsFinal(),
		Annotations:  annotationModels(f.Annotations(cp)),
		IsDeprecated: f.IsDeprecated(cp),
	}
	model.IsDeprecated = model.IsDeprecated || hasAnnotation(model.Annotations, deprecatedAnnotation)
	if ft := classfile.ParseFieldDescriptor(f.Descriptor(cp)); ft != nil {
		model.Type = typeModelFromFieldType(ft, names)
	}
	return model
}

func methodModelFromMember(m *classfile.MemberInfo, cp classfile.ConstantPool, names *binaryNames) MethodModel {
	model := MethodModel{
		Name:         m.Name(cp),
		Visibility:   visibilityFromAccessFlags(m.AccessFlags),
		IsStatic:     m.IsStatic(),
		IsAbstract:   m.AccessFlags.IsAbstract(),
		Annotations:  annotationModels(m.Annotations(cp)),
		IsDeprecated: m.IsDeprecated(cp),
		ReturnType:   TypeModel{Name: "void"},
	}
	model.IsDeprecated = model.IsDeprecated || hasAnnotation(model.Annotations, deprecatedAnnotation)

	desc := classfile.ParseMethodDescriptor(m.Descriptor(cp))
	if desc == nil {
		return model
	}
	if desc.ReturnType != nil {
		model.ReturnType = typeModelFromFieldType(desc.ReturnType, names)
	}
	for i := range desc.Parameters {
		model.Parameters = append(model.Parameters, ParameterModel{
			Name: "arg" + strconv.Itoa(i),
			Type: typeModelFromFieldType(&desc.Parameters[i], names),
		})
	}
	return model
}

func typeModelFromFieldType(ft *classfile.FieldType, names *binaryNames) TypeModel {
	t := TypeModel{Name: ft.BaseType, ArrayDepth: ft.ArrayDepth}
	if ft.ClassName != "" {
		t.Name = names.sourceName(ft.ClassName)
	}
	return t
}
