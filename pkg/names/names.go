// Package names translates NuGet package ids into npm package names.
//
// A [Mapper] either produces a name or declines. Mappers are composed with
// [Combined], which returns the first accepted result. The chain must end in
// a mapper that never declines (see [Total]) so every id gets a name:
//
//	m, err := names.Combined(
//	    names.Custom(map[string]string{"Newtonsoft.Json": "@vendor/json"}),
//	    names.Default("@nuget/{0}"),
//	)
//	m.Map("Newtonsoft.Json") // "@vendor/json"
//	m.Map("Serilog")         // "@nuget/serilog"
package names

import (
	"strings"

	"github.com/matzehuels/nugetnpm/pkg/errors"
)

// Placeholder is replaced by the source package id in name templates.
const Placeholder = "{0}"

// Mapper maps a NuGet package id to an npm name, or declines.
type Mapper interface {
	Map(id string) (string, bool)
}

// TotalMapper is a Mapper that never declines.
type TotalMapper interface {
	Mapper
	total()
}

// Format substitutes id into template.
func Format(template, id string) string {
	return strings.ReplaceAll(template, Placeholder, id)
}

// CustomMapper applies per-package templates. Lookups ignore case.
type CustomMapper struct {
	templates map[string]string
}

// Custom returns a mapper for explicit per-package overrides. Each template
// may embed the original id through [Placeholder].
func Custom(templates map[string]string) *CustomMapper {
	m := &CustomMapper{templates: make(map[string]string, len(templates))}
	for id, tpl := range templates {
		m.templates[strings.ToLower(id)] = tpl
	}
	return m
}

// Map implements Mapper.
func (m *CustomMapper) Map(id string) (string, bool) {
	tpl, ok := m.templates[strings.ToLower(id)]
	if !ok {
		return "", false
	}
	return Format(tpl, id), true
}

// Len returns the number of overrides.
func (m *CustomMapper) Len() int { return len(m.templates) }

// DefaultMapper formats every lower-cased id into one template.
type DefaultMapper struct {
	template string
}

// Default returns the fallback mapper. An empty template maps ids to
// their lower-cased form.
func Default(template string) *DefaultMapper {
	if template == "" {
		template = Placeholder
	}
	return &DefaultMapper{template: template}
}

// Map implements Mapper. It never declines.
func (m *DefaultMapper) Map(id string) (string, bool) {
	return Format(m.template, strings.ToLower(id)), true
}

func (m *DefaultMapper) total() {}

// Template returns the naming template.
func (m *DefaultMapper) Template() string { return m.template }

// Chain tries mappers in order.
type Chain struct {
	mappers []Mapper
	last    TotalMapper
}

// Combined builds a chain from mappers in priority order. The last mapper
// must be a [TotalMapper].
func Combined(mappers ...Mapper) (*Chain, error) {
	if len(mappers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "name mapper chain is empty")
	}
	last, ok := mappers[len(mappers)-1].(TotalMapper)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "name mapper chain must end in a default mapper")
	}
	return &Chain{mappers: mappers[:len(mappers)-1], last: last}, nil
}

// Map implements Mapper. It never declines.
func (c *Chain) Map(id string) (string, bool) {
	return c.Name(id), true
}

// Name returns the mapped name of id.
func (c *Chain) Name(id string) string {
	for _, m := range c.mappers {
		if name, ok := m.Map(id); ok {
			return name
		}
	}
	name, _ := c.last.Map(id)
	return name
}

func (c *Chain) total() {}

// Total reports whether m can never decline.
func Total(m Mapper) bool {
	_, ok := m.(TotalMapper)
	return ok
}
