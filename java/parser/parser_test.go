package parser

import (
	"strings"
	"testing"
)

func parse(t *testing.T, source string) *Node {
	t.Helper()
	node := ParseCompilationUnit(strings.NewReader(source), WithFile("Test.java")).Finish()
	if node == nil {
		t.Fatal("Finish() returned nil")
	}
	if errs := node.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors:\n%s", node.String())
	}
	return node
}

func TestParseEmptyInput(t *testing.T) {
	if node := ParseCompilationUnit(strings.NewReader("")).Finish(); node != nil {
		t.Errorf("expected nil node for empty input, got %v", node.Kind)
	}
}

func TestParsePackageAndImports(t *testing.T) {
	node := parse(t, `
package com.example.model;

import java.util.List;
import java.util.*;
import static java.util.Collections.emptyList;

class A {}
`)
	pkg := node.FirstChildOfKind(KindPackageDecl)
	if pkg == nil {
		t.Fatal("expected package declaration")
	}
	qn := pkg.FirstChildOfKind(KindQualifiedName)
	if got := len(qn.Children); got != 3 {
		t.Errorf("package name has %d segments, want 3", got)
	}

	imports := node.ChildrenOfKind(KindImportDecl)
	if len(imports) != 3 {
		t.Fatalf("got %d imports, want 3", len(imports))
	}
	if last := imports[1].Children[len(imports[1].Children)-1]; last.TokenLiteral() != "*" {
		t.Errorf("wildcard import lost its '*', got %q", last.TokenLiteral())
	}
	if first := imports[2].Children[0]; first.TokenLiteral() != "static" {
		t.Errorf("static import lost its marker, got %q", first.TokenLiteral())
	}
}

func TestParseClassDeclaration(t *testing.T) {
	node := parse(t, `
@Entity
public class Person<T extends Comparable<T>> extends Base<T> implements Serializable, Cloneable {
    @Property
    private final Map<String, List<Integer>> scores = new HashMap<String, List<Integer>>(), other;
    public int[] numbers[];
    static { init(); }
    { count++; }

    public Person(String name) throws Exception { this.name = name; }

    @Deprecated
    public String getName() { return name; }

    protected <R> R convert(Function<? super T, ? extends R> f, int... rest) { return null; }

    abstract void setName(final String name);
}
`)
	decl := node.FirstChildOfKind(KindClassDecl)
	if decl == nil {
		t.Fatal("expected class declaration")
	}
	if decl.Name() != "Person" {
		t.Errorf("Name() = %q, want Person", decl.Name())
	}
	mods := decl.FirstChildOfKind(KindModifiers)
	if mods.FirstChildOfKind(KindAnnotation) == nil {
		t.Error("expected class annotation")
	}
	if decl.FirstChildOfKind(KindTypeParameters) == nil {
		t.Error("expected type parameters")
	}
	if ext := decl.FirstChildOfKind(KindExtendsClause); ext == nil || len(ext.Children) != 1 {
		t.Error("expected extends clause with one type")
	}
	if impl := decl.FirstChildOfKind(KindImplementsClause); impl == nil || len(impl.Children) != 2 {
		t.Error("expected implements clause with two types")
	}

	body := decl.FirstChildOfKind(KindBlock)
	fields := body.ChildrenOfKind(KindFieldDecl)
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if vars := fields[0].ChildrenOfKind(KindVariable); len(vars) != 2 {
		t.Errorf("first field declares %d variables, want 2", len(vars))
	}
	if vars := fields[1].ChildrenOfKind(KindVariable); len(vars) != 1 || len(vars[0].ChildrenOfKind(KindArrayType)) != 1 {
		t.Error("expected one variable with one extra dimension")
	}
	if got := len(body.ChildrenOfKind(KindInitializer)); got != 2 {
		t.Errorf("got %d initializers, want 2", got)
	}
	if got := len(body.ChildrenOfKind(KindConstructorDecl)); got != 1 {
		t.Errorf("got %d constructors, want 1", got)
	}

	methods := body.ChildrenOfKind(KindMethodDecl)
	if len(methods) != 3 {
		t.Fatalf("got %d methods, want 3", len(methods))
	}
	names := []string{"getName", "convert", "setName"}
	for i, m := range methods {
		if m.Name() != names[i] {
			t.Errorf("method %d = %q, want %q", i, m.Name(), names[i])
		}
	}
	params := methods[1].FirstChildOfKind(KindParameters).ChildrenOfKind(KindParameter)
	if len(params) != 2 {
		t.Fatalf("convert has %d parameters, want 2", len(params))
	}
	if params[1].FirstChildOfKind(KindArrayType) == nil {
		t.Error("varargs parameter should be an array type")
	}
	if methods[1].FirstChildOfKind(KindBody) == nil {
		t.Error("expected skipped method body")
	}
}

func TestParseNestedTypes(t *testing.T) {
	node := parse(t, `
class Outer {
    static class Inner {
        interface Deep { int value(); }
    }
    enum Color { RED, GREEN { void x() {} }, BLUE("b"); private int code; }
    record Point(int x, int y) implements Shape {
        Point { if (x < 0) throw new IllegalArgumentException(); }
    }
    @interface Marker { String value() default "x"; }
}
`)
	body := node.FirstChildOfKind(KindClassDecl).FirstChildOfKind(KindBlock)

	inner := body.FirstChildOfKind(KindClassDecl)
	if inner == nil || inner.Name() != "Inner" {
		t.Fatal("expected nested class Inner")
	}
	if deep := inner.FirstChildOfKind(KindBlock).FirstChildOfKind(KindInterfaceDecl); deep == nil || deep.Name() != "Deep" {
		t.Error("expected interface Deep inside Inner")
	}

	enum := body.FirstChildOfKind(KindEnumDecl)
	if enum == nil {
		t.Fatal("expected enum")
	}
	enumBody := enum.FirstChildOfKind(KindBlock)
	if got := len(enumBody.ChildrenOfKind(KindEnumConstant)); got != 3 {
		t.Errorf("got %d enum constants, want 3", got)
	}
	if got := len(enumBody.ChildrenOfKind(KindFieldDecl)); got != 1 {
		t.Errorf("got %d enum fields, want 1", got)
	}

	record := body.FirstChildOfKind(KindRecordDecl)
	if record == nil {
		t.Fatal("expected record")
	}
	if got := len(record.FirstChildOfKind(KindParameters).Children); got != 2 {
		t.Errorf("record has %d components, want 2", got)
	}

	annotation := body.FirstChildOfKind(KindAnnotationDecl)
	if annotation == nil || annotation.Name() != "Marker" {
		t.Fatal("expected annotation declaration Marker")
	}
	if annotation.FirstChildOfKind(KindBlock).FirstChildOfKind(KindMethodDecl) == nil {
		t.Error("expected annotation element")
	}
}

func TestParsePositions(t *testing.T) {
	node := parse(t, "package p;\n\nclass A {\n    @Property\n    private int x;\n}\n")
	field := node.FirstChildOfKind(KindClassDecl).FirstChildOfKind(KindBlock).FirstChildOfKind(KindFieldDecl)
	if field.Span.Start.Line != 4 || field.Span.Start.Column != 5 {
		t.Errorf("field starts at %s, want 4:5", field.Span.Start)
	}
	if field.Span.Start.File != "Test.java" {
		t.Errorf("File = %q, want Test.java", field.Span.Start.File)
	}
}

func TestParseRecoversFromErrors(t *testing.T) {
	node := ParseCompilationUnit(strings.NewReader(`
class A {
    int = 5;
    public String name;
}
`)).Finish()
	if node == nil {
		t.Fatal("Finish() returned nil")
	}
	if len(node.Errors()) == 0 {
		t.Error("expected at least one error node")
	}
	body := node.FirstChildOfKind(KindClassDecl).FirstChildOfKind(KindBlock)
	var found bool
	for _, f := range body.ChildrenOfKind(KindFieldDecl) {
		if v := f.FirstChildOfKind(KindVariable); v != nil && v.Name() == "name" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected field 'name' after recovery:\n%s", node)
	}
}

func TestParseModuleInfo(t *testing.T) {
	node := parse(t, "module com.example { requires java.base; }")
	if len(node.Children) != 0 {
		t.Errorf("module-info produced %d declarations, want 0", len(node.Children))
	}
}
