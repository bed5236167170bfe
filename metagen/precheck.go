package metagen

// CanPossiblyGenerate reports whether any of types might produce a
// metamodel. It only looks at annotations, so it may say yes for a unit
// that discovery later finds empty, but never says no for one that would
// generate. types should hold every type a unit declares; see AllTypes.
func CanPossiblyGenerate(types []Type) bool {
	for _, t := range types {
		markers := MarkersOf(t.Annotations())
		switch {
		case markers.Aborts():
			continue
		case markers.Has(MarkerMeta), markers.Has(MarkerBean):
			return true
		}
		for _, f := range t.Fields() {
			if MarkersOf(f.Annotations).Has(MarkerProperty) {
				return true
			}
		}
		for _, m := range t.Methods() {
			if len(m.Parameters) == 0 && MarkersOf(m.Annotations).Has(MarkerProperty) {
				return true
			}
		}
	}
	return false
}

// AllTypes flattens types and their member types, outer before inner.
func AllTypes(types []Type) []Type {
	var result []Type
	var walk func(Type)
	walk = func(t Type) {
		result = append(result, t)
		for _, n := range t.NestedTypes() {
			walk(n)
		}
	}
	for _, t := range types {
		walk(t)
	}
	return result
}
