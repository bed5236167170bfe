package java

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dhamidi/metagen/java/parser"
)

type SourceOption func(*sourceConfig)

type sourceConfig struct {
	file  string
	known TypeLookup
}

// WithSourceFile records the path of the unit for positions and
// diagnostics.
func WithSourceFile(path string) SourceOption {
	return func(c *sourceConfig) {
		c.file = path
	}
}

// WithTypeLookup lets the resolver see types declared outside the unit.
func WithTypeLookup(known TypeLookup) SourceOption {
	return func(c *sourceConfig) {
		c.known = known
	}
}

// CompilationUnit is the declaration-level view of one source file.
type CompilationUnit struct {
	File    string
	Package string
	Imports []string
	// Classes lists every declared type, each outer type before its
	// member types, in declaration order.
	Classes []*ClassModel
	Errors  []SyntaxError
}

type SyntaxError struct {
	Position Position
	Message  string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Position.File, e.Position.Line, e.Position.Column, e.Message)
}

// Err joins the syntax errors of the unit, or returns nil.
func (u *CompilationUnit) Err() error {
	errs := make([]error, 0, len(u.Errors))
	for _, e := range u.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// TopLevel returns the types declared directly in the unit.
func (u *CompilationUnit) TopLevel() []*ClassModel {
	var result []*ClassModel
	for _, c := range u.Classes {
		if !c.IsNested() {
			result = append(result, c)
		}
	}
	return result
}

func ParseUnit(source []byte, opts ...SourceOption) *CompilationUnit {
	var cfg sourceConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	unit := &CompilationUnit{File: cfg.file}
	node := parser.ParseCompilationUnit(bytes.NewReader(source), parser.WithFile(cfg.file)).Finish()
	if node == nil {
		return unit
	}

	for _, e := range node.Errors() {
		unit.Errors = append(unit.Errors, SyntaxError{
			Position: positionOf(e.Span.Start),
			Message:  e.Error.Message,
		})
	}

	if pkg := node.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		if qn := pkg.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
			unit.Package = qualifiedNameToString(qn)
		}
	}

	imports := importsFromCompilationUnit(node)
	for _, imp := range imports {
		name := imp.qualifiedName
		if imp.isWildcard {
			name += ".*"
		}
		unit.Imports = append(unit.Imports, name)
	}

	b := &unitBuilder{
		unit:     unit,
		resolver: newTypeResolver(unit.Package, imports, cfg.known),
	}

	var decls []*parser.Node
	for _, child := range node.Children {
		if child.Kind.IsTypeDecl() {
			decls = append(decls, child)
		}
	}
	b.resolver.push(memberTypes(decls, unit.Package), nil)
	for _, decl := range decls {
		b.classModel(decl, nil)
	}
	return unit
}

// ClassModelsFromSource returns all types declared in source. Syntax
// errors are returned alongside whatever could be recovered.
func ClassModelsFromSource(source []byte, opts ...SourceOption) ([]*ClassModel, error) {
	unit := ParseUnit(source, opts...)
	return unit.Classes, unit.Err()
}

func importsFromCompilationUnit(cu *parser.Node) []importInfo {
	var imports []importInfo
	for _, decl := range cu.ChildrenOfKind(parser.KindImportDecl) {
		var info importInfo
		for _, child := range decl.Children {
			switch {
			case child.Kind == parser.KindQualifiedName:
				info.qualifiedName = qualifiedNameToString(child)
			case child.TokenLiteral() == "static":
				info.isStatic = true
			case child.TokenLiteral() == "*":
				info.isWildcard = true
			}
		}
		if info.qualifiedName != "" {
			imports = append(imports, info)
		}
	}
	return imports
}

// memberTypes maps the simple names of decls to their qualified names
// within outer.
func memberTypes(decls []*parser.Node, outer string) map[string]string {
	types := make(map[string]string, len(decls))
	for _, decl := range decls {
		if name := decl.Name(); name != "" {
			types[name] = qualify(outer, name)
		}
	}
	return types
}

type unitBuilder struct {
	unit     *CompilationUnit
	resolver *typeResolver
}

var classKinds = map[parser.NodeKind]ClassKind{
	parser.KindClassDecl:      ClassKindClass,
	parser.KindInterfaceDecl:  ClassKindInterface,
	parser.KindEnumDecl:       ClassKindEnum,
	parser.KindRecordDecl:     ClassKindRecord,
	parser.KindAnnotationDecl: ClassKindAnnotation,
}

func (b *unitBuilder) classModel(node *parser.Node, outer *ClassModel) *ClassModel {
	model := &ClassModel{
		Kind:       classKinds[node.Kind],
		Package:    b.unit.Package,
		SimpleName: node.Name(),
		SourceFile: b.unit.File,
		Visibility: VisibilityPackage,
	}
	if outer != nil {
		model.Name = outer.Name + "." + model.SimpleName
		model.EnclosingClass = outer.Name
	} else {
		model.Name = qualify(model.Package, model.SimpleName)
	}
	if id := node.FirstChildOfKind(parser.KindIdentifier); id != nil {
		model.Position = positionOf(id.Span.Start)
	}

	modifiers := node.FirstChildOfKind(parser.KindModifiers)
	b.applyModifiers(modifiers, &model.Visibility, &model.IsStatic, &model.IsFinal, &model.IsAbstract)
	model.Annotations = b.resolver.annotations(modifiers)
	model.IsDeprecated = hasAnnotation(model.Annotations, "java.lang.Deprecated")
	if outer != nil && (outer.Kind == ClassKindInterface || outer.Kind == ClassKindAnnotation) {
		if model.Visibility == VisibilityPackage {
			model.Visibility = VisibilityPublic
		}
		model.IsStatic = true
	}
	if outer != nil && model.Kind != ClassKindClass {
		model.IsStatic = true
	}

	var typeVars []string
	if tp := node.FirstChildOfKind(parser.KindTypeParameters); tp != nil {
		model.TypeParameters = b.typeParameters(tp)
		for _, p := range model.TypeParameters {
			typeVars = append(typeVars, p.Name)
		}
	}

	b.resolver.push(nil, typeVars)
	b.applyHeader(node, model)
	b.resolver.pop()

	body := node.FirstChildOfKind(parser.KindBlock)
	var nested []*parser.Node
	if body != nil {
		for _, child := range body.Children {
			if child.Kind.IsTypeDecl() {
				nested = append(nested, child)
			}
		}
	}

	b.resolver.push(memberTypes(nested, model.Name), typeVars)
	defer b.resolver.pop()

	if model.Kind == ClassKindRecord {
		if params := node.FirstChildOfKind(parser.KindParameters); params != nil {
			for _, p := range params.ChildrenOfKind(parser.KindParameter) {
				param := b.parameter(p)
				model.Fields = append(model.Fields, FieldModel{
					Name:        param.Name,
					Type:        param.Type,
					Visibility:  VisibilityPrivate,
					IsFinal:     true,
					Annotations: b.resolver.annotations(p.FirstChildOfKind(parser.KindModifiers)),
					Position:    positionOf(p.Span.Start),
				})
			}
		}
	}

	if body != nil {
		for _, child := range body.Children {
			switch child.Kind {
			case parser.KindFieldDecl:
				model.Fields = append(model.Fields, b.fieldModels(child, model)...)
			case parser.KindMethodDecl:
				model.Methods = append(model.Methods, b.methodModel(child, model))
			}
		}
	}

	b.unit.Classes = append(b.unit.Classes, model)
	for _, decl := range nested {
		inner := b.classModel(decl, model)
		model.InnerClasses = append(model.InnerClasses, InnerClassModel{
			InnerClass: inner.Name,
			OuterClass: model.Name,
			InnerName:  inner.SimpleName,
			Visibility: inner.Visibility,
			IsStatic:   inner.IsStatic,
		})
	}
	return model
}

func (b *unitBuilder) applyHeader(node *parser.Node, model *ClassModel) {
	switch model.Kind {
	case ClassKindEnum:
		model.SuperClass = "java.lang.Enum"
	case ClassKindRecord:
		model.SuperClass = "java.lang.Record"
	case ClassKindClass:
		if model.Name != "java.lang.Object" {
			model.SuperClass = "java.lang.Object"
		}
	}

	if ext := node.FirstChildOfKind(parser.KindExtendsClause); ext != nil {
		for _, t := range ext.Children {
			name := b.resolver.typeModel(t).Name
			if model.Kind == ClassKindClass {
				model.SuperClass = name
				break
			}
			model.Interfaces = append(model.Interfaces, name)
		}
	}
	if impl := node.FirstChildOfKind(parser.KindImplementsClause); impl != nil {
		for _, t := range impl.Children {
			model.Interfaces = append(model.Interfaces, b.resolver.typeModel(t).Name)
		}
	}
}

func (b *unitBuilder) applyModifiers(modifiers *parser.Node, vis *Visibility, static, final, abstract *bool) {
	if modifiers == nil {
		return
	}
	for _, child := range modifiers.ChildrenOfKind(parser.KindIdentifier) {
		switch child.TokenLiteral() {
		case "public":
			*vis = VisibilityPublic
		case "protected":
			*vis = VisibilityProtected
		case "private":
			*vis = VisibilityPrivate
		case "static":
			*static = true
		case "final":
			*final = true
		case "abstract":
			*abstract = true
		}
	}
}

func (b *unitBuilder) fieldModels(node *parser.Node, owner *ClassModel) []FieldModel {
	modifiers := node.FirstChildOfKind(parser.KindModifiers)
	base := FieldModel{Visibility: VisibilityPackage}
	var abstract bool
	b.applyModifiers(modifiers, &base.Visibility, &base.IsStatic, &base.IsFinal, &abstract)
	if owner.Kind == ClassKindInterface || owner.Kind == ClassKindAnnotation {
		base.Visibility = VisibilityPublic
		base.IsStatic = true
		base.IsFinal = true
	}
	base.Annotations = b.resolver.annotations(modifiers)
	base.IsDeprecated = hasAnnotation(base.Annotations, "java.lang.Deprecated")

	var typ TypeModel
	for _, child := range node.Children {
		if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
			typ = b.resolver.typeModel(child)
			break
		}
	}

	var fields []FieldModel
	for _, v := range node.ChildrenOfKind(parser.KindVariable) {
		f := base
		f.Name = v.Name()
		f.Type = typ
		f.Type.ArrayDepth += extraDims(v)
		f.Position = positionOf(v.Span.Start)
		fields = append(fields, f)
	}
	return fields
}

func (b *unitBuilder) methodModel(node *parser.Node, owner *ClassModel) MethodModel {
	modifiers := node.FirstChildOfKind(parser.KindModifiers)
	m := MethodModel{Name: node.Name(), Visibility: VisibilityPackage}
	var static, final bool
	b.applyModifiers(modifiers, &m.Visibility, &static, &final, &m.IsAbstract)
	m.IsStatic = static
	if (owner.Kind == ClassKindInterface || owner.Kind == ClassKindAnnotation) && m.Visibility == VisibilityPackage {
		m.Visibility = VisibilityPublic
	}
	m.Annotations = b.resolver.annotations(modifiers)
	m.IsDeprecated = hasAnnotation(m.Annotations, "java.lang.Deprecated")
	if id := node.FirstChildOfKind(parser.KindIdentifier); id != nil {
		m.Position = positionOf(id.Span.Start)
	}

	var typeVars []string
	if tp := node.FirstChildOfKind(parser.KindTypeParameters); tp != nil {
		for _, p := range b.typeParameters(tp) {
			typeVars = append(typeVars, p.Name)
		}
	}
	b.resolver.push(nil, typeVars)
	defer b.resolver.pop()

	for _, child := range node.Children {
		if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
			m.ReturnType = b.resolver.typeModel(child)
			break
		}
	}
	if params := node.FirstChildOfKind(parser.KindParameters); params != nil {
		for _, p := range params.ChildrenOfKind(parser.KindParameter) {
			m.Parameters = append(m.Parameters, b.parameter(p))
		}
	}
	return m
}

func (b *unitBuilder) parameter(node *parser.Node) ParameterModel {
	param := ParameterModel{Name: node.Name()}
	for _, child := range node.Children {
		if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
			param.Type = b.resolver.typeModel(child)
			break
		}
	}
	param.Type.ArrayDepth += extraDims(node)
	return param
}

// extraDims counts the "[]" written after a variable or parameter name.
// They appear as empty ArrayType children, unlike array types themselves.
func extraDims(node *parser.Node) int {
	count := 0
	for _, child := range node.ChildrenOfKind(parser.KindArrayType) {
		if len(child.Children) == 0 {
			count++
		}
	}
	return count
}

func (b *unitBuilder) typeParameters(node *parser.Node) []TypeParameterModel {
	var params []TypeParameterModel
	for _, child := range node.ChildrenOfKind(parser.KindTypeParameter) {
		params = append(params, TypeParameterModel{Name: child.Name()})
	}
	// Bounds may refer to any parameter of the same list.
	var names []string
	for _, p := range params {
		names = append(names, p.Name)
	}
	b.resolver.push(nil, names)
	defer b.resolver.pop()
	for i, child := range node.ChildrenOfKind(parser.KindTypeParameter) {
		for _, bound := range child.ChildrenOfKind(parser.KindType) {
			params[i].Bounds = append(params[i].Bounds, b.resolver.typeModel(bound))
		}
	}
	return params
}

func positionOf(p parser.Position) Position {
	return Position{File: p.File, Line: p.Line, Column: p.Column}
}
