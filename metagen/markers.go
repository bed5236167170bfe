package metagen

// Marker is one of the annotation roles discovery reacts to.
type Marker uint8

const (
	MarkerMeta Marker = 1 << iota
	MarkerBean
	MarkerProperty
	MarkerIgnore
	MarkerGenerated
	MarkerDeprecated
)

// Canonical names of the annotation types that carry a marker role.
const (
	MetaAnnotation       = "net.ftlines.metagen.annot.Meta"
	BeanAnnotation       = "net.ftlines.metagen.annot.Bean"
	PropertyAnnotation   = "net.ftlines.metagen.annot.Property"
	IgnoreAnnotation     = "net.ftlines.metagen.annot.Ignore"
	DeprecatedAnnotation = "java.lang.Deprecated"
)

var markerAnnotations = map[string]Marker{
	MetaAnnotation:                          MarkerMeta,
	BeanAnnotation:                          MarkerBean,
	"javax.persistence.Entity":              MarkerBean,
	"jakarta.persistence.Entity":            MarkerBean,
	"javax.persistence.MappedSuperclass":    MarkerBean,
	"jakarta.persistence.MappedSuperclass":  MarkerBean,
	PropertyAnnotation:                      MarkerProperty,
	IgnoreAnnotation:                        MarkerIgnore,
	"javax.annotation.Generated":            MarkerGenerated,
	"javax.annotation.processing.Generated": MarkerGenerated,
	DeprecatedAnnotation:                    MarkerDeprecated,
}

// MarkerAnnotations returns the canonical annotation names recognized as
// markers. Hosts use it to resolve star imports of the marker packages.
func MarkerAnnotations() []string {
	names := make([]string, 0, len(markerAnnotations))
	for name := range markerAnnotations {
		names = append(names, name)
	}
	return names
}

// Markers is the set of marker roles found on one declaration.
type Markers Marker

// MarkersOf maps annotation names to the marker roles they carry. Names
// that are not markers are ignored.
func MarkersOf(annotations []string) Markers {
	var m Markers
	for _, name := range annotations {
		m |= Markers(markerAnnotations[name])
	}
	return m
}

func (m Markers) Has(marker Marker) bool {
	return Marker(m)&marker != 0
}

// Aborts reports whether the set excludes a type from discovery.
func (m Markers) Aborts() bool {
	return m.Has(MarkerGenerated) || m.Has(MarkerIgnore)
}
