package ast

import (
	"fmt"
	"strings"

	"github.com/loxrun/glox/pkg/tokens"
)

// PrettyPrint renders a statement tree in the indented, one-node-per-line
// style the teacher's debug printer used, generalized to the full node set.
func PrettyPrint(stmts []Stmt) {
	for _, s := range stmts {
		prettyStmt(s, 0)
	}
}

func indent(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat(" ", n-1) + "|" + " "
}

func prettyStmt(s Stmt, lvl int) {
	const step = 3
	fmt.Print(indent(lvl))
	switch n := s.(type) {
	case *Expression:
		fmt.Println("Expression:")
		prettyExpr(n.Expr, lvl+step)
	case *Print:
		fmt.Println("Print:")
		prettyExpr(n.Expr, lvl+step)
	case *Var:
		fmt.Printf("Var %s", n.Name.Lexeme)
		if n.Initializer != nil {
			fmt.Println(" =")
			prettyExpr(n.Initializer, lvl+step)
		} else {
			fmt.Println()
		}
	case *Block:
		fmt.Println("Block:")
		for _, stmt := range n.Statements {
			prettyStmt(stmt, lvl+step)
		}
	case *If:
		fmt.Println("If:")
		prettyExpr(n.Cond, lvl+step)
		prettyStmt(n.Then, lvl+step)
		if n.Else != nil {
			prettyStmt(n.Else, lvl+step)
		}
	case *While:
		fmt.Println("While:")
		prettyExpr(n.Cond, lvl+step)
		prettyStmt(n.Body, lvl+step)
	case *Function:
		fmt.Printf("Function %s(%s):\n", n.Name.Lexeme, joinParams(n.Params))
		for _, stmt := range n.Body {
			prettyStmt(stmt, lvl+step)
		}
	case *Return:
		fmt.Println("Return:")
		if n.Value != nil {
			prettyExpr(n.Value, lvl+step)
		}
	case *Class:
		fmt.Printf("Class %s:\n", n.Name.Lexeme)
		for _, m := range n.Methods {
			prettyStmt(m, lvl+step)
		}
	default:
		fmt.Printf("<unknown stmt %T>\n", s)
	}
}

func joinParams(params []tokens.Token) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return strings.Join(names, ", ")
}

func prettyExpr(e Expr, lvl int) {
	const step = 3
	fmt.Print(indent(lvl))
	switch n := e.(type) {
	case *Literal:
		fmt.Printf("Literal: %#v\n", n.Value)
	case *Unary:
		fmt.Printf("Unary %s:\n", n.Op.Lexeme)
		prettyExpr(n.Operand, lvl+step)
	case *Binary:
		fmt.Printf("Binary %s:\n", n.Op.Lexeme)
		prettyExpr(n.Left, lvl+step)
		prettyExpr(n.Right, lvl+step)
	case *Logical:
		fmt.Printf("Logical %s:\n", n.Op.Lexeme)
		prettyExpr(n.Left, lvl+step)
		prettyExpr(n.Right, lvl+step)
	case *Grouping:
		fmt.Println("Grouping:")
		prettyExpr(n.Inner, lvl+step)
	case *Variable:
		fmt.Printf("Variable: %s\n", n.Name.Lexeme)
	case *Assign:
		fmt.Printf("Assign %s:\n", n.Name.Lexeme)
		prettyExpr(n.Value, lvl+step)
	case *Call:
		fmt.Println("Call:")
		prettyExpr(n.Callee, lvl+step)
		for _, arg := range n.Args {
			prettyExpr(arg, lvl+step)
		}
	case *Get:
		fmt.Printf("Get .%s:\n", n.Name.Lexeme)
		prettyExpr(n.Object, lvl+step)
	case *Set:
		fmt.Printf("Set .%s:\n", n.Name.Lexeme)
		prettyExpr(n.Object, lvl+step)
		prettyExpr(n.Value, lvl+step)
	case *This:
		fmt.Println("This")
	case *Super:
		fmt.Printf("Super.%s\n", n.Method.Lexeme)
	case *AnonFunction:
		fmt.Println("AnonFunction:")
		for _, stmt := range n.Body {
			prettyStmt(stmt, lvl+step)
		}
	default:
		fmt.Printf("<unknown expr %T>\n", e)
	}
}
