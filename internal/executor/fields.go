package executor

import (
	language "github.com/phatnguyentan/graph-demo/internal/language"
	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// fieldGroup is one response entry: the alias (or name) plus every field
// node that contributes to it across fragments.
type fieldGroup struct {
	ResponseName string
	Fields       []*language.Field
}

// collectFields flattens a selection set into ordered response groups,
// honoring @skip/@include and fragment type conditions.
func collectFields(s *execState, objectType *schema.Type, selections language.SelectionSet) []fieldGroup {
	var groups []fieldGroup
	index := map[string]int{}
	visited := map[string]bool{}
	collectInto(s, objectType, selections, &groups, index, visited)
	return groups
}

func collectInto(s *execState, objectType *schema.Type, selections language.SelectionSet, groups *[]fieldGroup, index map[string]int, visited map[string]bool) {
	add := func(responseName string, field *language.Field) {
		if i, ok := index[responseName]; ok {
			(*groups)[i].Fields = append((*groups)[i].Fields, field)
			return
		}
		index[responseName] = len(*groups)
		*groups = append(*groups, fieldGroup{ResponseName: responseName, Fields: []*language.Field{field}})
	}

	for _, sel := range selections {
		switch node := sel.(type) {
		case *language.Field:
			if !includeNode(s, node.Directives) {
				continue
			}
			name := node.Alias
			if name == "" {
				name = node.Name
			}
			add(name, node)

		case *language.InlineFragment:
			if !includeNode(s, node.Directives) {
				continue
			}
			if !fragmentApplies(s, objectType, node.TypeCondition) {
				continue
			}
			collectInto(s, objectType, node.SelectionSet, groups, index, visited)

		case *language.FragmentSpread:
			if !includeNode(s, node.Directives) || visited[node.Name] {
				continue
			}
			visited[node.Name] = true
			def := s.document.Fragments.ForName(node.Name)
			if def == nil || !includeNode(s, def.Directives) {
				continue
			}
			if !fragmentApplies(s, objectType, def.TypeCondition) {
				continue
			}
			collectInto(s, objectType, def.SelectionSet, groups, index, visited)
		}
	}
}

// fragmentApplies reports whether a fragment with the given type condition
// may spread into a selection on objectType: the condition names the type
// itself, an interface it implements, or a union it belongs to.
func fragmentApplies(s *execState, objectType *schema.Type, condition string) bool {
	if condition == "" || condition == objectType.Name {
		return true
	}
	cond := s.schema.Types[condition]
	if cond == nil {
		return false
	}
	if cond.IsAbstract() {
		return s.schema.IsPossibleType(condition, objectType.Name)
	}
	return false
}

// includeNode evaluates @skip and @include on a selection node.
func includeNode(s *execState, directives language.DirectiveList) bool {
	if d := directives.ForName("skip"); d != nil {
		if v, ok := directiveBoolArg(s, d, "if"); ok && v {
			return false
		}
	}
	if d := directives.ForName("include"); d != nil {
		if v, ok := directiveBoolArg(s, d, "if"); ok && !v {
			return false
		}
	}
	return true
}

func directiveBoolArg(s *execState, d *language.Directive, name string) (bool, bool) {
	arg := d.Arguments.ForName(name)
	if arg == nil {
		return false, false
	}
	v, ok := valueFromAST(arg.Value, s.variables).(bool)
	return v, ok
}

func mergeSelectionSets(fields []*language.Field) language.SelectionSet {
	var merged language.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	return merged
}

func selectOperation(document *language.QueryDocument, name string) *language.OperationDefinition {
	if name == "" && len(document.Operations) == 1 {
		return document.Operations[0]
	}
	return document.Operations.ForName(name)
}
