// Package extract turns per-file parse analyses into dependency graph
// records. It processes one file at a time, buffering the file's nodes and
// edges and committing them through the store in a single transaction.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/baner3221/AutoDocGen/internal/parser"
	"github.com/baner3221/AutoDocGen/internal/store"
)

// Extractor walks parsed file analyses and persists symbol nodes and typed
// relationship edges. Extraction is best-effort per symbol: a type spelling
// that normalizes to nothing simply produces no edge.
type Extractor struct {
	store *store.Store
}

// NewExtractor creates an Extractor writing to s.
func NewExtractor(s *store.Store) *Extractor {
	return &Extractor{store: s}
}

// ExtractFile extracts one file's analysis into the graph and returns the
// number of edges emitted. When incremental is true, the file's previous
// nodes and the edges touching them are deleted in the same transaction that
// inserts the new data, so repeated extraction of identical content is
// idempotent and a failure never leaves the file half-applied.
func (e *Extractor) ExtractFile(fp string, analysis *parser.FileAnalysis, incremental bool) (int, error) {
	batch := &store.ExtractionBatch{}

	batch.AddNode(store.Node{
		Name:          filepath.Base(fp),
		QualifiedName: fp,
		Type:          store.NodeFile,
		FilePath:      &fp,
		LineNumber:    intPtr(1),
	})

	edgeCount := e.extractIncludes(fp, analysis, batch)

	for _, cls := range analysis.AllClasses() {
		edgeCount += e.extractClass(fp, cls, batch)
	}
	for _, fn := range analysis.AllFunctions() {
		edgeCount += e.extractFunction(fp, fn, batch)
	}
	for _, en := range analysis.AllEnums() {
		edgeCount += e.extractEnum(fp, en, batch)
	}
	edgeCount += e.extractNamespaces(fp, analysis, batch)

	if err := e.store.CommitExtraction(fp, batch, incremental); err != nil {
		return 0, fmt.Errorf("extract %s: %w", fp, err)
	}
	return edgeCount, nil
}

// extractIncludes emits an INCLUDES edge from the file to each non-system
// include path. System includes are dropped.
func (e *Extractor) extractIncludes(fp string, analysis *parser.FileAnalysis, batch *store.ExtractionBatch) int {
	count := 0
	for _, inc := range analysis.Includes {
		if inc.IsSystem {
			continue
		}
		var ctx *string
		if inc.Line > 0 {
			ctx = strPtr(fmt.Sprintf("Line %d", inc.Line))
		}
		batch.AddEdge(store.Edge{
			SourceQualifiedName: fp,
			TargetQualifiedName: inc.Path,
			Type:                store.EdgeIncludes,
			Context:             ctx,
		})
		count++
	}
	return count
}

func (e *Extractor) extractClass(fp string, cls parser.ClassInfo, batch *store.ExtractionBatch) int {
	count := 0

	nodeType := store.NodeClass
	if cls.Kind == parser.KindStruct {
		nodeType = store.NodeStruct
	}
	batch.AddNode(store.Node{
		Name:          cls.Name,
		QualifiedName: cls.QualifiedName,
		Type:          nodeType,
		FilePath:      &fp,
		LineNumber:    locationLine(cls.Location),
	})

	batch.AddEdge(store.Edge{
		SourceQualifiedName: fp,
		TargetQualifiedName: cls.QualifiedName,
		Type:                store.EdgeContains,
	})
	count++

	for _, base := range cls.BaseClasses {
		baseName := normalizeTypeName(base)
		if baseName == "" {
			continue
		}
		batch.AddEdge(store.Edge{
			SourceQualifiedName: cls.QualifiedName,
			TargetQualifiedName: baseName,
			Type:                store.EdgeInherits,
			Context:             strPtr("extends " + base),
		})
		count++
	}

	for _, member := range cls.Members {
		for _, typeName := range typeNames(member.TypeSpelling) {
			if typeName == cls.QualifiedName {
				continue
			}
			batch.AddEdge(store.Edge{
				SourceQualifiedName: cls.QualifiedName,
				TargetQualifiedName: typeName,
				Type:                store.EdgeUses,
				Context:             strPtr("member: " + member.Name),
			})
			count++
		}
	}

	for _, method := range cls.Methods {
		count += e.extractMethod(cls.QualifiedName, method, batch)
	}

	for _, nested := range cls.NestedEnums {
		batch.AddEdge(store.Edge{
			SourceQualifiedName: cls.QualifiedName,
			TargetQualifiedName: nested.QualifiedName,
			Type:                store.EdgeContains,
		})
		count++
	}

	return count
}

// extractMethod attributes a method's type dependencies to the owning class.
func (e *Extractor) extractMethod(className string, method parser.MethodInfo, batch *store.ExtractionBatch) int {
	count := 0

	for _, typeName := range typeNames(method.ReturnTypeSpelling) {
		if typeName == className {
			continue
		}
		batch.AddEdge(store.Edge{
			SourceQualifiedName: className,
			TargetQualifiedName: typeName,
			Type:                store.EdgeUses,
			Context:             strPtr(fmt.Sprintf("method %s returns", method.Name)),
		})
		count++
	}

	for _, param := range method.Parameters {
		for _, typeName := range typeNames(param.TypeSpelling) {
			if typeName == className {
				continue
			}
			batch.AddEdge(store.Edge{
				SourceQualifiedName: className,
				TargetQualifiedName: typeName,
				Type:                store.EdgeUses,
				Context:             strPtr(fmt.Sprintf("method %s param", method.Name)),
			})
			count++
		}
	}

	return count
}

func (e *Extractor) extractFunction(fp string, fn parser.FunctionInfo, batch *store.ExtractionBatch) int {
	count := 0

	batch.AddNode(store.Node{
		Name:          fn.Name,
		QualifiedName: fn.QualifiedName,
		Type:          store.NodeFunction,
		FilePath:      &fp,
		LineNumber:    locationLine(fn.Location),
	})

	batch.AddEdge(store.Edge{
		SourceQualifiedName: fp,
		TargetQualifiedName: fn.QualifiedName,
		Type:                store.EdgeContains,
	})
	count++

	for _, typeName := range typeNames(fn.ReturnTypeSpelling) {
		if typeName == fn.QualifiedName {
			continue
		}
		batch.AddEdge(store.Edge{
			SourceQualifiedName: fn.QualifiedName,
			TargetQualifiedName: typeName,
			Type:                store.EdgeUses,
			Context:             strPtr("return type"),
		})
		count++
	}

	for _, param := range fn.Parameters {
		for _, typeName := range typeNames(param.TypeSpelling) {
			if typeName == fn.QualifiedName {
				continue
			}
			batch.AddEdge(store.Edge{
				SourceQualifiedName: fn.QualifiedName,
				TargetQualifiedName: typeName,
				Type:                store.EdgeUses,
				Context:             strPtr("param: " + param.Name),
			})
			count++
		}
	}

	return count
}

func (e *Extractor) extractEnum(fp string, en parser.EnumInfo, batch *store.ExtractionBatch) int {
	batch.AddNode(store.Node{
		Name:          en.Name,
		QualifiedName: en.QualifiedName,
		Type:          store.NodeEnum,
		FilePath:      &fp,
		LineNumber:    locationLine(en.Location),
	})

	batch.AddEdge(store.Edge{
		SourceQualifiedName: fp,
		TargetQualifiedName: en.QualifiedName,
		Type:                store.EdgeContains,
	})
	return 1
}

// extractNamespaces walks the namespace tree with an explicit worklist —
// never recursion, so arbitrarily deep nesting cannot exhaust the stack —
// emitting namespace nodes and CONTAINS edges to their members.
func (e *Extractor) extractNamespaces(fp string, analysis *parser.FileAnalysis, batch *store.ExtractionBatch) int {
	count := 0

	stack := append([]parser.NamespaceInfo(nil), analysis.Namespaces...)
	for len(stack) > 0 {
		ns := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		batch.AddNode(store.Node{
			Name:          ns.Name,
			QualifiedName: ns.QualifiedName,
			Type:          store.NodeNamespace,
			FilePath:      &fp,
			LineNumber:    locationLine(ns.Location),
		})

		batch.AddEdge(store.Edge{
			SourceQualifiedName: fp,
			TargetQualifiedName: ns.QualifiedName,
			Type:                store.EdgeContains,
		})
		count++

		for _, cls := range ns.Classes {
			batch.AddEdge(store.Edge{
				SourceQualifiedName: ns.QualifiedName,
				TargetQualifiedName: cls.QualifiedName,
				Type:                store.EdgeContains,
			})
			count++
		}
		for _, fn := range ns.Functions {
			batch.AddEdge(store.Edge{
				SourceQualifiedName: ns.QualifiedName,
				TargetQualifiedName: fn.QualifiedName,
				Type:                store.EdgeContains,
			})
			count++
		}
		for _, en := range ns.Enums {
			batch.AddEdge(store.Edge{
				SourceQualifiedName: ns.QualifiedName,
				TargetQualifiedName: en.QualifiedName,
				Type:                store.EdgeContains,
			})
			count++
		}
		for _, nested := range ns.NestedNamespaces {
			batch.AddEdge(store.Edge{
				SourceQualifiedName: ns.QualifiedName,
				TargetQualifiedName: nested.QualifiedName,
				Type:                store.EdgeContains,
			})
			count++
			stack = append(stack, nested)
		}
	}

	return count
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func locationLine(loc *parser.SourceLocation) *int {
	if loc == nil {
		return nil
	}
	line := loc.LineStart
	return &line
}

// builtinTypes are primitive type names that never produce nodes or edges.
// Compared case-insensitively against the normalized base name.
var builtinTypes = map[string]bool{
	"void": true, "bool": true, "char": true, "int": true,
	"long": true, "short": true, "unsigned": true, "signed": true,
	"float": true, "double": true, "auto": true, "nullptr": true,
	"size_t": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"string": true, "wstring": true,
}

// containerTypes are std wrappers whose template arguments matter but whose
// own name is noise in a dependency graph. Only std::-qualified names are
// checked against this set; a user class named Pair or Stack is a real
// dependency and must keep its edges.
var containerTypes = map[string]bool{
	"vector": true, "map": true, "set": true, "list": true,
	"deque": true, "array": true, "pair": true, "tuple": true,
	"unordered_map": true, "unordered_set": true,
	"unique_ptr": true, "shared_ptr": true, "weak_ptr": true,
	"optional": true, "span": true, "queue": true, "stack": true,
	"function": true,
}

// normalizeTypeName strips C++ qualifiers and reference/pointer markers and
// cuts the type at its first template bracket.
func normalizeTypeName(typeStr string) string {
	result := typeStr
	for _, remove := range []string{"const ", "volatile ", "mutable ", "&", "*"} {
		result = strings.ReplaceAll(result, remove, "")
	}
	if i := strings.Index(result, "<"); i >= 0 {
		result = result[:i]
	}
	return strings.TrimSpace(result)
}

// filteredType reports whether a normalized name is a builtin or a
// std::-qualified container wrapper. Builtins match with or without the
// std:: prefix; the container set never applies to unqualified names.
func filteredType(name string) bool {
	bare := strings.ToLower(strings.TrimPrefix(name, "std::"))
	if builtinTypes[bare] {
		return true
	}
	return strings.HasPrefix(name, "std::") && containerTypes[bare]
}

// typeNames extracts the usable type names from one type spelling: the
// normalized base name (unless builtin or container), plus one level of
// top-level comma-separated template arguments. The comma split is naive; a
// nested template with internal commas (std::map<int, Pair<A,B>>) splits its
// inner arguments apart. Accepted approximation, kept from the reference
// extractor.
func typeNames(typeStr string) []string {
	if typeStr == "" {
		return nil
	}

	baseName := normalizeTypeName(typeStr)

	// Collapse accidental empty components from leading/doubled separators.
	if strings.Contains(baseName, "::") {
		parts := strings.Split(baseName, "::")
		kept := parts[:0]
		for _, p := range parts {
			if p != "" {
				kept = append(kept, p)
			}
		}
		baseName = strings.Join(kept, "::")
	}

	if baseName == "" {
		return nil
	}

	var result []string
	if !filteredType(baseName) {
		result = append(result, baseName)
	}

	open := strings.Index(typeStr, "<")
	closing := strings.LastIndex(typeStr, ">")
	if open >= 0 && closing > open {
		for _, part := range strings.Split(typeStr[open+1:closing], ",") {
			nested := normalizeTypeName(strings.TrimSpace(part))
			if nested != "" && !filteredType(nested) {
				result = append(result, nested)
			}
		}
	}

	return result
}
