package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	// Compilation unit level
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindRecordDecl
	KindAnnotationDecl

	// Members
	KindFieldDecl
	KindVariable
	KindMethodDecl
	KindConstructorDecl
	KindEnumConstant
	KindInitializer

	// Type and modifiers
	KindModifiers
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindType
	KindArrayType
	KindWildcard
	KindAnnotation

	// Type clauses
	KindExtendsClause
	KindImplementsClause
	KindPermitsClause

	// Method components
	KindParameters
	KindParameter
	KindThrowsList

	// KindBlock is a class body; KindBody is a skipped method or
	// initializer body whose span covers the braces.
	KindBlock
	KindBody

	KindIdentifier
	KindQualifiedName
)

var nodeKindNames = map[NodeKind]string{
	KindError:            "Error",
	KindCompilationUnit:  "CompilationUnit",
	KindPackageDecl:      "PackageDecl",
	KindImportDecl:       "ImportDecl",
	KindClassDecl:        "ClassDecl",
	KindInterfaceDecl:    "InterfaceDecl",
	KindEnumDecl:         "EnumDecl",
	KindRecordDecl:       "RecordDecl",
	KindAnnotationDecl:   "AnnotationDecl",
	KindFieldDecl:        "FieldDecl",
	KindVariable:         "Variable",
	KindMethodDecl:       "MethodDecl",
	KindConstructorDecl:  "ConstructorDecl",
	KindEnumConstant:     "EnumConstant",
	KindInitializer:      "Initializer",
	KindModifiers:        "Modifiers",
	KindTypeParameters:   "TypeParameters",
	KindTypeParameter:    "TypeParameter",
	KindTypeArguments:    "TypeArguments",
	KindType:             "Type",
	KindArrayType:        "ArrayType",
	KindWildcard:         "Wildcard",
	KindAnnotation:       "Annotation",
	KindExtendsClause:    "ExtendsClause",
	KindImplementsClause: "ImplementsClause",
	KindPermitsClause:    "PermitsClause",
	KindParameters:       "Parameters",
	KindParameter:        "Parameter",
	KindThrowsList:       "ThrowsList",
	KindBlock:            "Block",
	KindBody:             "Body",
	KindIdentifier:       "Identifier",
	KindQualifiedName:    "QualifiedName",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTypeDecl reports whether k declares a class-like type.
func (k NodeKind) IsTypeDecl() bool {
	switch k {
	case KindClassDecl, KindInterfaceDecl, KindEnumDecl, KindRecordDecl, KindAnnotationDecl:
		return true
	}
	return false
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Name returns the literal of the first Identifier child, which is the
// declared name for declarations, variables and parameters.
func (n *Node) Name() string {
	if id := n.FirstChildOfKind(KindIdentifier); id != nil {
		return id.TokenLiteral()
	}
	return ""
}

// Errors collects every error node below n in source order.
func (n *Node) Errors() []*Node {
	var errs []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if node.IsError() {
			errs = append(errs, node)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
	return errs
}

func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.write(&sb, 0, true)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")
	for _, child := range n.Children {
		child.write(sb, indent+1, showPositions)
	}
}
