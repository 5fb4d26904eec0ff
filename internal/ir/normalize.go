package ir

// NormalizeStatement enforces the block-nesting invariant: a block never
// directly contains another block of its own ordering; inner same-kind
// blocks splice into their parent. Copy-on-write: unchanged subtrees come
// back as the same pointer.
func NormalizeStatement(s Statement) Statement {
	switch st := s.(type) {
	case *BlockStatement:
		return NormalizeBlock(st)
	case *LoopStatement:
		body := NormalizeBlock(st.Body)
		if body == st.Body {
			return st
		}
		return &LoopStatement{Count: st.Count, Body: body}
	case *BranchStatement:
		changed := false
		cases := make([]*CaseStatement, len(st.Cases))
		for i, c := range st.Cases {
			body := NormalizeBlock(c.Body)
			if body == c.Body {
				cases[i] = c
				continue
			}
			cases[i] = &CaseStatement{State: c.State, Body: body}
			changed = true
		}
		if !changed {
			return st
		}
		return &BranchStatement{Cases: cases}
	default:
		return s
	}
}

// NormalizeBlock flattens direct same-kind nesting out of one block,
// normalizing children first. Unscheduled blocks are left intact: their
// grouping is the scheduler's input.
func NormalizeBlock(b *BlockStatement) *BlockStatement {
	changed := false
	out := make([]Statement, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		ns := NormalizeStatement(s)
		if ns != s {
			changed = true
		}
		if inner, ok := ns.(*BlockStatement); ok &&
			b.Order != Unscheduled && inner.Order == b.Order {
			out = append(out, inner.Stmts...)
			changed = true
			continue
		}
		out = append(out, ns)
	}
	if !changed {
		return b
	}
	return &BlockStatement{Order: b.Order, Stmts: out}
}
