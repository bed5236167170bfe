package metagen

import (
	"sort"
	"strings"
)

// Space indexes discovered beans by top-level type name. Member types are
// reached through the nested beans of their top-level bean. A Space is not
// safe for concurrent use; hosts run one pass at a time.
type Space struct {
	beans map[string]*Bean
}

func NewSpace() *Space {
	return &Space{beans: make(map[string]*Bean)}
}

// Add discovers the top-level type of t and stores the result, replacing
// any earlier entry. When nothing is kept the entry is removed and Add
// returns nil.
func (s *Space) Add(t Type, diags *Diagnostics) *Bean {
	top := TopLevelOf(t)
	bean := Discover(top, diags)
	if bean == nil {
		delete(s.beans, top.Name())
		return nil
	}
	s.beans[top.Name()] = bean
	return bean
}

// Get returns the bean stored for t, following the enclosing chain for
// member types.
func (s *Space) Get(t Type) (*Bean, bool) {
	if t.Nesting() == TopLevel {
		bean, ok := s.beans[t.Name()]
		return bean, ok
	}
	TopLevelOf(t)
	outer, ok := s.Get(t.Enclosing())
	if !ok {
		return nil, false
	}
	return outer.NestedBean(t.SimpleName())
}

// Lookup finds a bean by qualified name, for hosts that only have a name.
func (s *Space) Lookup(name string) (*Bean, bool) {
	if bean, ok := s.beans[name]; ok {
		return bean, true
	}
	for top, bean := range s.beans {
		rest, ok := strings.CutPrefix(name, top+".")
		if !ok {
			continue
		}
		for _, segment := range strings.Split(rest, ".") {
			if bean, ok = bean.NestedBean(segment); !ok {
				break
			}
		}
		if ok {
			return bean, true
		}
	}
	return nil, false
}

// Remove drops the entry of t's top-level type with its nested beans.
func (s *Space) Remove(t Type) {
	s.RemoveName(TopLevelOf(t).Name())
}

// RemoveName drops the entry stored under a top-level type name.
func (s *Space) RemoveName(name string) {
	delete(s.beans, name)
}

func (s *Space) Len() int {
	return len(s.beans)
}

// Beans returns the stored top-level beans sorted by name.
func (s *Space) Beans() []*Bean {
	result := make([]*Bean, 0, len(s.beans))
	for _, bean := range s.beans {
		result = append(result, bean)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
