// Package emit renders discovered beans as Java metamodel classes.
package emit

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/dhamidi/metagen/metagen"
)

// GeneratedMarker is written on every emitted class and identifies files
// this tool owns.
const GeneratedMarker = `@javax.annotation.Generated("metagen")`

// PropertyClass is the runtime descriptor type of each property.
const PropertyClass = "net.ftlines.metagen.SingularProperty"

var classTemplate = template.Must(template.New("class").Parse(`@SuppressWarnings("all")
` + GeneratedMarker + `
{{.Modifiers}}class {{.MetaName}}{{with .Superclass}} extends {{.}}{{end}} {
	public static class C {
		public static final String name = "{{.Name}}";
		public static final String simpleName = "{{.SimpleName}}";
	}
{{- range .Properties}}
	{{if .Deprecated}}@Deprecated
	{{end}}{{.Modifiers}}static final ` + PropertyClass + `<{{$.Name}}, {{.Type}}> {{.Safe}} = new ` + PropertyClass + `<>("{{.Name}}", {{.Owner}}.class, {{.Field}}, {{.Getter}}, {{.Setter}});
{{- end}}
{{- if .Properties}}

	public static class P {
{{- range .Properties}}
		public static final String {{.Safe}} = "{{.Name}}";
{{- end}}
	}
{{- end}}
{{- range .Nested}}

{{.}}
{{- end}}
}`))

type classData struct {
	Modifiers  string
	MetaName   string
	Superclass string
	Name       string
	SimpleName string
	Properties []propertyData
	Nested     []string
}

type propertyData struct {
	Deprecated bool
	Modifiers  string
	Type       string
	Safe       string
	Name       string
	Owner      string
	Field      string
	Getter     string
	Setter     string
}

// Source renders the compilation unit holding the metamodel of a
// top-level bean and its nested beans.
func Source(bean *metagen.Bean) ([]byte, error) {
	var buf bytes.Buffer
	if bean.Package != "" {
		fmt.Fprintf(&buf, "package %s;\n\n", bean.Package)
	}
	class, err := renderClass(bean, false)
	if err != nil {
		return nil, err
	}
	buf.WriteString(class)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func renderClass(bean *metagen.Bean, nested bool) (string, error) {
	data := classData{
		Modifiers:  modifiers(bean.Visibility, nested),
		MetaName:   bean.MetaSimpleName(),
		Superclass: bean.Superclass,
		Name:       bean.Name,
		SimpleName: bean.SimpleName,
	}
	for _, p := range bean.Properties {
		data.Properties = append(data.Properties, propertyData{
			Deprecated: p.Deprecated,
			Modifiers:  modifiers(p.Visibility, false),
			Type:       Boxed(p.Type),
			Safe:       SafeName(p.Name),
			Name:       p.Name,
			Owner:      p.Owner,
			Field:      quoteOrNull(p.Field, p.Name),
			Getter:     quoteOrNull(p.Getter, p.Getter),
			Setter:     quoteOrNull(p.Setter, p.Setter),
		})
	}
	for _, n := range bean.Nested {
		class, err := renderClass(n, true)
		if err != nil {
			return "", err
		}
		data.Nested = append(data.Nested, indent(class))
	}

	var buf bytes.Buffer
	if err := classTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", bean.Name, err)
	}
	return buf.String(), nil
}

func modifiers(v metagen.Visibility, static bool) string {
	var sb strings.Builder
	if kw := v.Keyword(); kw != "" {
		sb.WriteString(kw + " ")
	}
	if static {
		sb.WriteString("static ")
	}
	return sb.String()
}

// quoteOrNull renders value as a Java string literal when present is set.
func quoteOrNull(present, value string) string {
	if present == "" {
		return "null"
	}
	return `"` + value + `"`
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "\t" + line
		}
	}
	return strings.Join(lines, "\n")
}

// Path returns the slash-separated path of the bean's metamodel source
// relative to an output root.
func Path(bean *metagen.Bean) string {
	dir := strings.ReplaceAll(bean.Package, ".", "/")
	return path.Join(dir, bean.MetaSimpleName()+".java")
}

// IsGenerated reports whether source was written by Source.
func IsGenerated(source []byte) bool {
	return bytes.Contains(source, []byte(GeneratedMarker))
}
