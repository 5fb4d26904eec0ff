package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"ionasm/internal/ast"
	"ionasm/internal/source"
)

// FormatASTPretty writes the parse tree as an indented branch diagram:
//
//	Circuit
//	├─ Register 1:1-1:14
//	│  ├─ Ident "q"
//	│  └─ Int 2
//	└─ Gate 2:1-2:8
func FormatASTPretty(w io.Writer, tree *ast.Tree, root ast.NodeID, fs *source.FileSet) error {
	writeNode(w, tree, root, fs, "", "")
	return nil
}

func writeNode(w io.Writer, tree *ast.Tree, id ast.NodeID, fs *source.FileSet, prefix, childPrefix string) {
	node := tree.Get(id)
	fmt.Fprintf(w, "%s%s", prefix, nodeLabel(node, fs))
	fmt.Fprintln(w)

	kids := node.Kids
	for i, kid := range kids {
		if i == len(kids)-1 {
			writeNode(w, tree, kid, fs, childPrefix+"└─ ", childPrefix+"   ")
			continue
		}
		writeNode(w, tree, kid, fs, childPrefix+"├─ ", childPrefix+"│  ")
	}
}

func nodeLabel(node *ast.Node, fs *source.FileSet) string {
	label := node.Tag.String()
	switch node.Tag {
	case ast.TagIdent, ast.TagBits:
		label += fmt.Sprintf(" %q", node.Text)
	case ast.TagInt:
		label += fmt.Sprintf(" %d", node.Int)
	case ast.TagFloat:
		label += fmt.Sprintf(" %g", node.Float)
	}
	if fs != nil && !node.Span.Empty() {
		start, end := fs.Resolve(node.Span)
		label += fmt.Sprintf(" %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return label
}

type astNodeOutput struct {
	Tag   string          `json:"tag"`
	Text  string          `json:"text,omitempty"`
	Int   int64           `json:"int,omitempty"`
	Float float64         `json:"float,omitempty"`
	Span  source.Span     `json:"span"`
	Kids  []astNodeOutput `json:"kids,omitempty"`
}

// FormatASTJSON writes the parse tree as nested JSON objects.
func FormatASTJSON(w io.Writer, tree *ast.Tree, root ast.NodeID) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildNodeOutput(tree, root))
}

func buildNodeOutput(tree *ast.Tree, id ast.NodeID) astNodeOutput {
	node := tree.Get(id)
	out := astNodeOutput{
		Tag:   node.Tag.String(),
		Text:  node.Text,
		Int:   node.Int,
		Float: node.Float,
		Span:  node.Span,
	}
	for _, kid := range node.Kids {
		out.Kids = append(out.Kids, buildNodeOutput(tree, kid))
	}
	return out
}
