// Package parser defines the file-analysis records produced by the external
// AST-parsing service. The graph engine consumes these records as-is; it has
// no knowledge of how source text was parsed.
package parser

import (
	"encoding/json"
	"fmt"
	"os"
)

// Symbol kinds used by ClassInfo.Kind.
const (
	KindClass  = "class"
	KindStruct = "struct"
)

// SourceLocation is a line range within the analyzed file.
type SourceLocation struct {
	LineStart int `json:"line_start"`
	LineEnd   int `json:"line_end"`
}

// ParamInfo is one function or method parameter. TypeSpelling is the full
// type text with qualifiers, exactly as written in the source.
type ParamInfo struct {
	Name         string `json:"name"`
	TypeSpelling string `json:"type_spelling"`
}

// MemberInfo is one class member variable.
type MemberInfo struct {
	Name         string `json:"name"`
	TypeSpelling string `json:"type_spelling"`
}

// MethodInfo is a method declared on a class or struct.
type MethodInfo struct {
	Name               string      `json:"name"`
	ReturnTypeSpelling string      `json:"return_type_spelling"`
	Parameters         []ParamInfo `json:"parameters"`
}

// FunctionInfo is a free function (top-level or namespace-scoped).
type FunctionInfo struct {
	Name               string          `json:"name"`
	QualifiedName      string          `json:"qualified_name"`
	ReturnTypeSpelling string          `json:"return_type_spelling"`
	Parameters         []ParamInfo     `json:"parameters"`
	Location           *SourceLocation `json:"location,omitempty"`
}

// EnumInfo is an enum declaration.
type EnumInfo struct {
	Name          string          `json:"name"`
	QualifiedName string          `json:"qualified_name"`
	Location      *SourceLocation `json:"location,omitempty"`
}

// ClassInfo is a class or struct declaration.
type ClassInfo struct {
	Name          string          `json:"name"`
	QualifiedName string          `json:"qualified_name"`
	Kind          string          `json:"kind"`
	BaseClasses   []string        `json:"base_classes,omitempty"`
	Members       []MemberInfo    `json:"members,omitempty"`
	Methods       []MethodInfo    `json:"methods,omitempty"`
	NestedEnums   []EnumInfo      `json:"nested_enums,omitempty"`
	Location      *SourceLocation `json:"location,omitempty"`
}

// NamespaceInfo is a namespace with its directly contained declarations.
type NamespaceInfo struct {
	Name             string          `json:"name"`
	QualifiedName    string          `json:"qualified_name"`
	Classes          []ClassInfo     `json:"classes,omitempty"`
	Functions        []FunctionInfo  `json:"functions,omitempty"`
	Enums            []EnumInfo      `json:"enums,omitempty"`
	NestedNamespaces []NamespaceInfo `json:"nested_namespaces,omitempty"`
	Location         *SourceLocation `json:"location,omitempty"`
}

// IncludeInfo is one #include directive. IsSystem is true for <> includes.
type IncludeInfo struct {
	Path     string `json:"path"`
	IsSystem bool   `json:"is_system"`
	Line     int    `json:"line"`
}

// FileAnalysis is the complete parsed analysis of one source file.
type FileAnalysis struct {
	FilePath   string          `json:"file_path"`
	Includes   []IncludeInfo   `json:"includes,omitempty"`
	Namespaces []NamespaceInfo `json:"namespaces,omitempty"`
	Classes    []ClassInfo     `json:"classes,omitempty"`
	Functions  []FunctionInfo  `json:"functions,omitempty"`
	Enums      []EnumInfo      `json:"enums,omitempty"`
}

// AllClasses returns top-level classes plus every class declared inside any
// namespace, walking nested namespaces with an explicit worklist.
func (a *FileAnalysis) AllClasses() []ClassInfo {
	result := append([]ClassInfo(nil), a.Classes...)
	stack := append([]NamespaceInfo(nil), a.Namespaces...)
	for len(stack) > 0 {
		ns := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, ns.Classes...)
		stack = append(stack, ns.NestedNamespaces...)
	}
	return result
}

// AllFunctions returns top-level free functions plus every function declared
// inside any namespace.
func (a *FileAnalysis) AllFunctions() []FunctionInfo {
	result := append([]FunctionInfo(nil), a.Functions...)
	stack := append([]NamespaceInfo(nil), a.Namespaces...)
	for len(stack) > 0 {
		ns := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, ns.Functions...)
		stack = append(stack, ns.NestedNamespaces...)
	}
	return result
}

// AllEnums returns top-level enums plus every enum declared inside any
// namespace or class.
func (a *FileAnalysis) AllEnums() []EnumInfo {
	result := append([]EnumInfo(nil), a.Enums...)
	stack := append([]NamespaceInfo(nil), a.Namespaces...)
	for len(stack) > 0 {
		ns := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, ns.Enums...)
		stack = append(stack, ns.NestedNamespaces...)
	}
	for _, cls := range a.AllClasses() {
		result = append(result, cls.NestedEnums...)
	}
	return result
}

// LoadFile decodes one FileAnalysis from a JSON file written by the parsing
// service.
func LoadFile(path string) (*FileAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis: %w", err)
	}
	var analysis FileAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", path, err)
	}
	return &analysis, nil
}
