package codebase

import (
	"github.com/dhamidi/metagen/java"
	"github.com/dhamidi/metagen/metagen"
)

// typeView presents a class model to discovery. Enclosing, superclass and
// member types are looked up by name on every call, so a view sees the
// codebase as it is when discovery runs. Callers hold the codebase lock.
type typeView struct {
	c     *Codebase
	model *java.ClassModel
}

func (c *Codebase) view(model *java.ClassModel) metagen.Type {
	return &typeView{c: c, model: model}
}

func (t *typeView) Name() string       { return t.model.Name }
func (t *typeView) SimpleName() string { return t.model.SimpleName }
func (t *typeView) Package() string    { return t.model.Package }
func (t *typeView) Source() string     { return t.model.SourceFile }

func (t *typeView) Visibility() metagen.Visibility {
	return visibilityOf(t.model.Visibility)
}

func (t *typeView) Nesting() metagen.Nesting {
	switch {
	case t.model.IsLocal:
		return metagen.Local
	case t.model.IsNested():
		return metagen.Member
	}
	return metagen.TopLevel
}

func (t *typeView) Enclosing() metagen.Type {
	if !t.model.IsNested() {
		return nil
	}
	if outer := t.c.modelLocked(t.model.EnclosingClass); outer != nil {
		return t.c.view(outer)
	}
	return nil
}

func (t *typeView) Annotations() []string {
	return java.AnnotationNames(t.model.Annotations)
}

func (t *typeView) Fields() []metagen.Field {
	fields := make([]metagen.Field, 0, len(t.model.Fields))
	for _, f := range t.model.Fields {
		fields = append(fields, metagen.Field{
			Name:        f.Name,
			Visibility:  visibilityOf(f.Visibility),
			Type:        typeRef(f.Type),
			Annotations: java.AnnotationNames(f.Annotations),
			Position:    t.position(f.Position),
		})
	}
	return fields
}

func (t *typeView) Methods() []metagen.Method {
	methods := make([]metagen.Method, 0, len(t.model.Methods))
	for _, m := range t.model.Methods {
		params := make([]metagen.TypeRef, 0, len(m.Parameters))
		for _, p := range m.Parameters {
			params = append(params, typeRef(p.Type))
		}
		methods = append(methods, metagen.Method{
			Name:        m.Name,
			Visibility:  visibilityOf(m.Visibility),
			ReturnType:  typeRef(m.ReturnType),
			Parameters:  params,
			Annotations: java.AnnotationNames(m.Annotations),
			Position:    t.position(m.Position),
		})
	}
	return methods
}

func (t *typeView) Superclass() metagen.Type {
	if t.model.SuperClass == "" {
		return nil
	}
	if super := t.c.modelLocked(t.model.SuperClass); super != nil {
		return t.c.view(super)
	}
	return nil
}

func (t *typeView) NestedTypes() []metagen.Type {
	var result []metagen.Type
	for _, inner := range t.model.InnerClasses {
		if inner.OuterClass != t.model.Name {
			continue
		}
		if model := t.c.modelLocked(inner.InnerClass); model != nil {
			result = append(result, t.c.view(model))
		}
	}
	return result
}

// position fills in the file for members read from class files, which
// carry no location of their own.
func (t *typeView) position(p java.Position) metagen.Position {
	file := p.File
	if file == "" {
		file = t.model.SourceFile
	}
	return metagen.Position{File: file, Line: p.Line, Column: p.Column}
}

func visibilityOf(v java.Visibility) metagen.Visibility {
	switch v {
	case java.VisibilityPublic:
		return metagen.Public
	case java.VisibilityProtected:
		return metagen.Protected
	case java.VisibilityPrivate:
		return metagen.Private
	}
	return metagen.Default
}

func typeRef(t java.TypeModel) metagen.TypeRef {
	ref := metagen.TypeRef{ID: t.String()}
	if erased := t.Erased(); erased != ref.ID {
		ref.Erasure = erased
	}
	return ref
}
