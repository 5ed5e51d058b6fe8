package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wisplang/wisp/pkg/runtime"
)

// formatValue renders a runtime.Value for a REPL or run result line:
// closures print as an opaque placeholder, records print fields in sorted
// key order for determinism.
func formatValue(v runtime.Value) string {
	switch val := v.(type) {
	case runtime.UnitValue:
		return "()"
	case runtime.BoolValue:
		if val.Val {
			return "True"
		}
		return "False"
	case runtime.IntValue:
		return val.Val.String()
	case runtime.FloatValue:
		return fmt.Sprintf("%g", val.Val)
	case runtime.CharValue:
		return fmt.Sprintf("'%c'", val.Val)
	case runtime.StringValue:
		return fmt.Sprintf("%q", val.Val)
	case runtime.ListValue:
		parts := make([]string, len(val.Elements))
		for i, e := range val.Elements {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case runtime.TupleValue:
		return fmt.Sprintf("(%s, %s)", formatValue(val.First), formatValue(val.Second))
	case runtime.TripleValue:
		return fmt.Sprintf("(%s, %s, %s)", formatValue(val.First), formatValue(val.Second), formatValue(val.Third))
	case runtime.RecordValue:
		keys := make([]string, 0, len(val.Fields))
		for k := range val.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s = %s", k, formatValue(val.Fields[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case runtime.CustomValue:
		if len(val.Args) == 0 {
			return val.Name
		}
		parts := make([]string, len(val.Args))
		for i, a := range val.Args {
			parts[i] = formatValue(a)
		}
		return val.Name + " " + strings.Join(parts, " ")
	case runtime.PartiallyAppliedValue:
		return "<function>"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

func formatCallTree(tree runtime.CallTree, indent int) string {
	var b strings.Builder
	for _, node := range tree {
		writeCallNode(&b, node, indent)
	}
	return b.String()
}

func writeCallNode(b *strings.Builder, node *runtime.CallNode, indent int) {
	fmt.Fprintf(b, "%s%s %s(", strings.Repeat("  ", indent), node.Kind, qualifiedNameString(node.Name))
	for i, a := range node.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatValue(a))
	}
	b.WriteString(")")
	switch {
	case node.Err != nil:
		fmt.Fprintf(b, " !! %s\n", node.Err.Error())
	case node.Result != nil:
		fmt.Fprintf(b, " = %s\n", formatValue(node.Result))
	default:
		b.WriteString("\n")
	}
	for _, child := range node.Children {
		writeCallNode(b, child, indent+1)
	}
}

func qualifiedNameString(n runtime.QualifiedName) string {
	if n.Module == "" {
		return n.Name
	}
	return n.Module + "." + n.Name
}
