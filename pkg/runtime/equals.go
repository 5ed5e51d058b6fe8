package runtime

// ValuesEqual implements structural equality across every Value kind,
// used both by the `==` kernel primitive and by literal-pattern matching.
func ValuesEqual(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case UnitValue:
		return true
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case IntValue:
		return av.Val.Cmp(b.(IntValue).Val) == 0
	case FloatValue:
		return av.Val == b.(FloatValue).Val
	case CharValue:
		return av.Val == b.(CharValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case ListValue:
		bv := b.(ListValue)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !ValuesEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case TupleValue:
		bv := b.(TupleValue)
		return ValuesEqual(av.First, bv.First) && ValuesEqual(av.Second, bv.Second)
	case TripleValue:
		bv := b.(TripleValue)
		return ValuesEqual(av.First, bv.First) && ValuesEqual(av.Second, bv.Second) && ValuesEqual(av.Third, bv.Third)
	case RecordValue:
		bv := b.(RecordValue)
		if len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			ov, ok := bv.Fields[k]
			if !ok || !ValuesEqual(v, ov) {
				return false
			}
		}
		return true
	case CustomValue:
		bv := b.(CustomValue)
		if av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !ValuesEqual(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	default:
		// PartiallyApplied values have no meaningful structural equality.
		return false
	}
}
