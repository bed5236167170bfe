package emit

import (
	"github.com/dhamidi/metagen/java/parser"
	"github.com/dhamidi/metagen/metagen"
)

var boxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
	"void":    "java.lang.Void",
}

// Boxed renders t as a type argument: primitives become their wrapper
// class and type variables are erased.
func Boxed(t metagen.TypeRef) string {
	erased := t.Erased()
	if boxed, ok := boxes[erased]; ok {
		return boxed
	}
	return erased
}

// SafeName returns name usable as a Java identifier in the metamodel.
// Reserved words get a trailing underscore.
func SafeName(name string) string {
	if name == "_" || parser.IsKeyword(name) {
		return name + "_"
	}
	return name
}
