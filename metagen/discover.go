package metagen

// Discover builds the Bean for t and the beans of its member types. It
// returns nil when t is excluded by a marker, is private, or has nothing
// to generate. Member beans that are kept attach to t's bean; when t's
// bean is not kept they are dropped with it, but their diagnostics are
// still reported.
func Discover(t Type, diags *Diagnostics) *Bean {
	bean := populate(t, diags)

	var nested []*Bean
	for _, member := range t.NestedTypes() {
		if member.Nesting() != Member {
			continue
		}
		if nb := Discover(member, diags); nb != nil {
			nested = append(nested, nb)
		}
	}

	if bean == nil || bean.Visibility == Private {
		return nil
	}
	linkSuperclass(bean, t)
	if !bean.WillGenerateMeta() {
		return nil
	}
	bean.Nested = nested
	return bean
}

// populate runs the field, getter and setter passes over t's own members.
// It returns nil when a type annotation excludes t.
func populate(t Type, diags *Diagnostics) *Bean {
	markers := MarkersOf(t.Annotations())
	if markers.Aborts() {
		return nil
	}

	bean := newBean(t)
	bean.Forced = markers.Has(MarkerMeta)
	autobean := markers.Has(MarkerBean)

	for _, f := range t.Fields() {
		fm := MarkersOf(f.Annotations)
		candidate := autobean && f.Visibility == Public
		if !candidate && fm.Has(MarkerProperty) {
			if f.Visibility == Private {
				diags.Errorf(f.Position, "private field %s of %s does not support @Property", f.Name, t.Name())
				continue
			}
			candidate = true
		}
		if !candidate {
			continue
		}
		p, ok := bean.Property(f.Name)
		if !ok {
			p = &Property{Owner: t.Name(), Name: f.Name, Visibility: f.Visibility}
			bean.addProperty(p)
		}
		p.relax(f.Visibility)
		p.Type = f.Type
		p.Field = f.Name
		p.Deprecated = p.Deprecated || fm.Has(MarkerDeprecated)
	}

	for _, m := range t.Methods() {
		if len(m.Parameters) > 0 {
			continue
		}
		name, ok := accessorProperty(m.Name, "get")
		if !ok {
			if name, ok = accessorProperty(m.Name, "is"); !ok {
				continue
			}
		}
		mm := MarkersOf(m.Annotations)
		if !autobean && !mm.Has(MarkerProperty) {
			continue
		}
		p, ok := bean.Property(name)
		if ok {
			p.relax(m.Visibility)
		} else {
			p = &Property{Owner: t.Name(), Name: name, Visibility: m.Visibility}
			bean.addProperty(p)
		}
		p.Type = m.ReturnType
		p.Getter = m.Name
		p.Deprecated = p.Deprecated || mm.Has(MarkerDeprecated)
	}

	for _, m := range t.Methods() {
		if len(m.Parameters) != 1 {
			continue
		}
		name, ok := accessorProperty(m.Name, "set")
		if !ok {
			continue
		}
		p, ok := bean.Property(name)
		if !ok || p.Type.ID != m.Parameters[0].ID {
			continue
		}
		p.Setter = m.Name
		p.relax(m.Visibility)
	}

	return bean
}

// linkSuperclass points bean at the metamodel of the nearest ancestor
// that generates one. The walk stops at an excluded ancestor, at the end
// of the chain and at the first repeated type.
func linkSuperclass(bean *Bean, t Type) {
	seen := map[string]bool{t.Name(): true}
	for cursor := t.Superclass(); cursor != nil; cursor = cursor.Superclass() {
		if seen[cursor.Name()] {
			return
		}
		seen[cursor.Name()] = true

		ancestor := populate(cursor, nil)
		if ancestor == nil {
			return
		}
		// A private ancestor has no reachable metamodel; keep walking past it.
		if ancestor.Visibility != Private && ancestor.WillGenerateMeta() {
			bean.Superclass = ancestor.MetaName()
			return
		}
	}
}
