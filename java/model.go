package java

import "strings"

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// Position locates a declaration in a source file. Models read from class
// files carry a zero Position.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

// ClassModel describes one declared type. Names are fully qualified with
// '.' separating both packages and enclosing types, so a member type of
// com.example.Outer is named com.example.Outer.Inner.
type ClassModel struct {
	Name           string
	SimpleName     string
	Package        string
	SuperClass     string
	Interfaces     []string
	Visibility     Visibility
	Kind           ClassKind
	IsStatic       bool
	IsFinal        bool
	IsAbstract     bool
	IsDeprecated   bool
	IsLocal        bool
	SourceFile     string
	Position       Position
	Annotations    []AnnotationModel
	EnclosingClass string
	InnerClasses   []InnerClassModel
	Fields         []FieldModel
	Methods        []MethodModel
	TypeParameters []TypeParameterModel
}

// HasAnnotation reports whether the class carries an annotation with the
// given fully qualified type name.
func (c *ClassModel) HasAnnotation(name string) bool {
	return hasAnnotation(c.Annotations, name)
}

func (c *ClassModel) IsNested() bool {
	return c.EnclosingClass != ""
}

type FieldModel struct {
	Name         string
	Type         TypeModel
	Visibility   Visibility
	IsStatic     bool
	IsFinal      bool
	IsDeprecated bool
	Annotations  []AnnotationModel
	Position     Position
}

type MethodModel struct {
	Name         string
	ReturnType   TypeModel
	Parameters   []ParameterModel
	Visibility   Visibility
	IsStatic     bool
	IsAbstract   bool
	IsDeprecated bool
	Annotations  []AnnotationModel
	Position     Position
}

type ParameterModel struct {
	Name string
	Type TypeModel
}

// TypeModel is a resolved type reference. String renders its canonical
// identity, which is what two references are compared by.
type TypeModel struct {
	Name           string
	ArrayDepth     int
	TypeArguments  []TypeArgumentModel
	IsTypeVariable bool
}

func (t TypeModel) IsPrimitive() bool {
	if t.ArrayDepth > 0 {
		return false
	}
	switch t.Name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

func (t TypeModel) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t TypeModel) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}

func (t TypeModel) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

// Erased renders t with every type variable replaced by
// java.lang.Object, the form usable from a static context.
func (t TypeModel) Erased() string {
	var sb strings.Builder
	t.writeErased(&sb, true)
	return sb.String()
}

func (t TypeModel) write(sb *strings.Builder) {
	t.writeErased(sb, false)
}

func (t TypeModel) writeErased(sb *strings.Builder, erase bool) {
	if erase && t.IsTypeVariable {
		sb.WriteString("java.lang.Object")
	} else {
		sb.WriteString(t.Name)
	}
	if len(t.TypeArguments) > 0 {
		sb.WriteByte('<')
		for i, arg := range t.TypeArguments {
			if i > 0 {
				sb.WriteByte(',')
			}
			arg.write(sb, erase)
		}
		sb.WriteByte('>')
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
}

type TypeArgumentModel struct {
	Type       *TypeModel
	IsWildcard bool
	BoundKind  string // "extends", "super", or "" for unbounded
	Bound      *TypeModel
}

func (a TypeArgumentModel) write(sb *strings.Builder, erase bool) {
	switch {
	case a.IsWildcard:
		sb.WriteByte('?')
		if a.Bound != nil {
			sb.WriteString(" " + a.BoundKind + " ")
			a.Bound.writeErased(sb, erase)
		}
	case a.Type != nil:
		a.Type.writeErased(sb, erase)
	}
}

type TypeParameterModel struct {
	Name   string
	Bounds []TypeModel
}

type AnnotationModel struct {
	Type string
}

type InnerClassModel struct {
	InnerClass string
	OuterClass string
	InnerName  string
	Visibility Visibility
	IsStatic   bool
}

func hasAnnotation(annotations []AnnotationModel, name string) bool {
	for _, a := range annotations {
		if a.Type == name {
			return true
		}
	}
	return false
}

// AnnotationNames returns the annotation type names in declaration order.
func AnnotationNames(annotations []AnnotationModel) []string {
	names := make([]string, 0, len(annotations))
	for _, a := range annotations {
		names = append(names, a.Type)
	}
	return names
}

func splitClassName(fullName string) (pkg, simpleName string) {
	lastDot := strings.LastIndex(fullName, ".")
	if lastDot == -1 {
		return "", fullName
	}
	return fullName[:lastDot], fullName[lastDot+1:]
}
