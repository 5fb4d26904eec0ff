package driver

import (
	"ionasm/internal/diag"
	"ionasm/internal/lexer"
	"ionasm/internal/source"
	"ionasm/internal/token"
)

// TokenizeResult carries the token stream of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file to EOF, collecting diagnostics without stopping.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fileSet := source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenize(fileSet, fileID, maxDiagnostics), nil
}

// TokenizeSource lexes in-memory text, for tests and stdin.
func TokenizeSource(name string, src []byte, maxDiagnostics int) *TokenizeResult {
	fileSet := source.NewFileSet()
	fileID := fileSet.AddVirtual(name, src)
	return tokenize(fileSet, fileID, maxDiagnostics)
}

func tokenize(fileSet *source.FileSet, fileID source.FileID, maxDiagnostics int) *TokenizeResult {
	if maxDiagnostics <= 0 {
		maxDiagnostics = defaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(fileSet.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return &TokenizeResult{
		FileSet: fileSet,
		FileID:  fileID,
		Tokens:  tokens,
		Bag:     bag,
	}
}
