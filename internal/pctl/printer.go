package pctl

import "strings"

// Print renders n as PCTL source text that Parse accepts and that
// reconstructs an isomorphic AST (roundtrip property of spec.md §8 S6).
// Parenthesization is conservative: every boolean and unary temporal
// operator parenthesizes its operands unless they are atoms, TRUE/FALSE, or
// since-formulas; the operands of a since-formula are printed bare inside
// its own A(... S ...) / E(... S ...) parentheses.
func Print(n *Node) string {
	var b strings.Builder
	printNode(&b, n)
	return b.String()
}

func printNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindTrue:
		b.WriteString("TRUE")
	case KindFalse:
		b.WriteString("FALSE")
	case KindAtom:
		b.WriteString(n.Atom)
	case KindNot:
		b.WriteString("!")
		printOperand(b, n.Left)
	case KindAnd:
		printOperand(b, n.Left)
		b.WriteString(" & ")
		printOperand(b, n.Right)
	case KindOr:
		printOperand(b, n.Left)
		b.WriteString(" | ")
		printOperand(b, n.Right)
	case KindImplies:
		printOperand(b, n.Left)
		b.WriteString(" -> ")
		printOperand(b, n.Right)
	case KindIff:
		printOperand(b, n.Left)
		b.WriteString(" <-> ")
		printOperand(b, n.Right)
	case KindEY:
		b.WriteString("EY ")
		printOperand(b, n.Left)
	case KindAY:
		b.WriteString("AY ")
		printOperand(b, n.Left)
	case KindEP:
		b.WriteString("EP ")
		printOperand(b, n.Left)
	case KindAP:
		b.WriteString("AP ")
		printOperand(b, n.Left)
	case KindEH:
		b.WriteString("EH ")
		printOperand(b, n.Left)
	case KindAH:
		b.WriteString("AH ")
		printOperand(b, n.Left)
	case KindES:
		b.WriteString("E(")
		printNode(b, n.Left)
		b.WriteString(" S ")
		printNode(b, n.Right)
		b.WriteString(")")
	case KindAS:
		b.WriteString("A(")
		printNode(b, n.Left)
		b.WriteString(" S ")
		printNode(b, n.Right)
		b.WriteString(")")
	}
}

// printOperand wraps n in parentheses unless it is a leaf (atom/TRUE/FALSE)
// or already self-delimiting (ES/AS carry their own parens).
func printOperand(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindTrue, KindFalse, KindAtom, KindES, KindAS:
		printNode(b, n)
	default:
		b.WriteString("(")
		printNode(b, n)
		b.WriteString(")")
	}
}
