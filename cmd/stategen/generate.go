package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"regexp"
	"text/template"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/daw/engine/state"
)

// StateList is the declarative list of game states.
type StateList struct {
	Package string      `toml:"package"`
	States  []StateDecl `toml:"state"`
}

type StateDecl struct {
	Name string `toml:"name"`
}

var validName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Parse decodes and validates a state list.
func Parse(r io.Reader) (*StateList, error) {
	var list StateList
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&list); err != nil {
		return nil, err
	}
	if list.Package == "" {
		return nil, errors.New("package is required")
	}
	if len(list.States) == 0 {
		return nil, errors.New("at least one state must be declared")
	}
	if len(list.States) >= int(state.Quit-state.First) {
		return nil, fmt.Errorf("too many states: %d", len(list.States))
	}
	seen := make(map[string]bool, len(list.States))
	idents := map[string]string{
		"Declarations": "",
		"Names":        "",
	}
	for _, s := range list.States {
		if !validName.MatchString(s.Name) {
			return nil, fmt.Errorf("invalid state name %q", s.Name)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("state %q declared twice", s.Name)
		}
		seen[s.Name] = true

		ident := state.SymbolName(s.Name, "")
		if other, ok := idents[ident]; ok {
			if other == "" {
				return nil, fmt.Errorf("state %q clashes with the generated %s", s.Name, ident)
			}
			return nil, fmt.Errorf("states %q and %q both generate %s", other, s.Name, ident)
		}
		idents[ident] = s.Name
	}
	return &list, nil
}

type templateState struct {
	Ident string
	Name  string
}

var fileTemplate = template.Must(template.New("states").Parse(`// Code generated by stategen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import "github.com/spaghettifunk/daw/engine/state"

const (
{{- range $i, $s := .States}}
	{{$s.Ident}}{{if eq $i 0}} state.Type = state.First + iota{{end}}
{{- end}}
)

// Declarations lists every state in declaration order.
var Declarations = []state.Declaration{
{{- range .States}}
	{Type: {{.Ident}}, Name: "{{.Name}}"},
{{- end}}
}

// Names maps each state to its declared name.
var Names = map[state.Type]string{
	state.Null: "null",
{{- range .States}}
	{{.Ident}}: "{{.Name}}",
{{- end}}
	state.Quit: "quit",
}
`))

// Generate renders the Go source for list. source is recorded in the header.
func Generate(list *StateList, source string) ([]byte, error) {
	data := struct {
		Source  string
		Package string
		States  []templateState
	}{Source: source, Package: list.Package}
	for _, s := range list.States {
		data.States = append(data.States, templateState{
			Ident: state.SymbolName(s.Name, ""),
			Name:  s.Name,
		})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}
