package java

import (
	"strings"

	"github.com/dhamidi/metagen/java/parser"
)

// TypeLookup reports whether a fully qualified type name is known to the
// caller, for example because it was declared in another scanned file or
// found on the classpath. It lets star imports and same-package references
// resolve to types outside the unit being read.
type TypeLookup func(name string) bool

type importInfo struct {
	qualifiedName string
	isWildcard    bool
	isStatic      bool
}

// scope holds the names introduced by one enclosing declaration: the
// member types of a class and the type variables of a class or method.
type scope struct {
	types    map[string]string
	typeVars map[string]bool
}

// typeResolver maps simple names written in a compilation unit to fully
// qualified names, following Java's lookup order: type variables and
// member types of enclosing declarations, single-type imports, the
// unit's own package, on-demand imports and finally java.lang.
type typeResolver struct {
	pkg     string
	imports []importInfo
	known   TypeLookup
	scopes  []scope
}

func newTypeResolver(pkg string, imports []importInfo, known TypeLookup) *typeResolver {
	if known == nil {
		known = func(string) bool { return false }
	}
	return &typeResolver{pkg: pkg, imports: imports, known: known}
}

func (r *typeResolver) push(types map[string]string, typeVars []string) {
	s := scope{types: types, typeVars: make(map[string]bool, len(typeVars))}
	for _, v := range typeVars {
		s.typeVars[v] = true
	}
	r.scopes = append(r.scopes, s)
}

func (r *typeResolver) pop() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true, "Void": true,
	"Number": true, "Comparable": true, "CharSequence": true,
	"Iterable": true, "Cloneable": true, "Runnable": true, "AutoCloseable": true,
	"Thread": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "Enum": true, "Record": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true,
	"FunctionalInterface": true, "SafeVarargs": true,
}

// resolve returns the qualified name for name and whether it denotes a
// type variable in scope.
func (r *typeResolver) resolve(name string) (string, bool) {
	if name == "" || parser.IsPrimitive(name) || name == "void" {
		return name, false
	}

	head, rest, qualified := strings.Cut(name, ".")
	if qualified {
		if head != "" && head[0] >= 'a' && head[0] <= 'z' {
			return name, false
		}
		outer, _ := r.resolveSimple(head)
		return outer + "." + rest, false
	}
	return r.resolveSimple(name)
}

func (r *typeResolver) resolveSimple(name string) (string, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if r.scopes[i].typeVars[name] {
			return name, true
		}
		if full, ok := r.scopes[i].types[name]; ok {
			return full, false
		}
	}

	for _, imp := range r.imports {
		if imp.isWildcard || imp.isStatic {
			continue
		}
		if imp.qualifiedName == name || strings.HasSuffix(imp.qualifiedName, "."+name) {
			return imp.qualifiedName, false
		}
	}

	local := qualify(r.pkg, name)
	if r.known(local) {
		return local, false
	}

	for _, imp := range r.imports {
		if !imp.isWildcard {
			continue
		}
		if candidate := imp.qualifiedName + "." + name; r.known(candidate) {
			return candidate, false
		}
	}

	if javaLangTypes[name] {
		return "java.lang." + name, false
	}

	return local, false
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func (r *typeResolver) typeModel(node *parser.Node) TypeModel {
	if node == nil {
		return TypeModel{}
	}
	if node.Kind == parser.KindArrayType {
		var inner *parser.Node
		for _, child := range node.Children {
			if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
				inner = child
			}
		}
		model := r.typeModel(inner)
		model.ArrayDepth++
		return model
	}

	var model TypeModel
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindIdentifier:
			model.Name = child.TokenLiteral()
		case parser.KindQualifiedName:
			model.Name, model.IsTypeVariable = r.resolve(qualifiedNameToString(child))
		case parser.KindTypeArguments:
			model.TypeArguments = r.typeArguments(child)
		}
	}
	return model
}

func (r *typeResolver) typeArguments(node *parser.Node) []TypeArgumentModel {
	args := make([]TypeArgumentModel, 0, len(node.Children))
	for _, child := range node.Children {
		if child.Kind == parser.KindWildcard {
			arg := TypeArgumentModel{IsWildcard: true}
			if kind := child.FirstChildOfKind(parser.KindIdentifier); kind != nil {
				arg.BoundKind = kind.TokenLiteral()
				bound := r.typeModel(lastTypeChild(child))
				arg.Bound = &bound
			}
			args = append(args, arg)
			continue
		}
		t := r.typeModel(child)
		args = append(args, TypeArgumentModel{Type: &t})
	}
	return args
}

func (r *typeResolver) annotations(modifiers *parser.Node) []AnnotationModel {
	if modifiers == nil {
		return nil
	}
	var result []AnnotationModel
	for _, child := range modifiers.ChildrenOfKind(parser.KindAnnotation) {
		qn := child.FirstChildOfKind(parser.KindQualifiedName)
		if qn == nil {
			continue
		}
		name, _ := r.resolve(qualifiedNameToString(qn))
		result = append(result, AnnotationModel{Type: name})
	}
	return result
}

func lastTypeChild(node *parser.Node) *parser.Node {
	for i := len(node.Children) - 1; i >= 0; i-- {
		if k := node.Children[i].Kind; k == parser.KindType || k == parser.KindArrayType {
			return node.Children[i]
		}
	}
	return nil
}

func qualifiedNameToString(qn *parser.Node) string {
	parts := make([]string, 0, len(qn.Children))
	for _, child := range qn.Children {
		if child.Kind == parser.KindIdentifier {
			parts = append(parts, child.TokenLiteral())
		}
	}
	return strings.Join(parts, ".")
}
