// Package protocol implements the external line-protocol verbs (SHOW,
// INSERT, TRUNCATE, INTERSECTION, SYMMETRIC_DIFFERENCE) documented in the
// original collaborator's joiner.h, rewriting each into the internal SQL
// dialect the interpreter consumes.
package protocol

import (
	"fmt"

	"github.com/ansochnev/join-server/internal/storeerr"
	"github.com/ansochnev/join-server/internal/textutil"
)

// Translate rewrites one client line into the internal SQL statement the
// interpreter expects. If line is already one of the four internal
// statement forms (its first keyword is CREATE, INSERT, DELETE, or SELECT),
// it is passed through unchanged — this lets a client speak either the
// external verb set or raw SQL.
func Translate(line string) (string, error) {
	toks := textutil.Fields(textutil.Trim(line))
	if len(toks) == 0 {
		return "", nil
	}

	verb := textutil.FoldUpper(toks[0])
	switch verb {
	case "SHOW":
		if len(toks) != 2 {
			return "", storeerr.NewParseError("SHOW requires exactly one table name")
		}
		return fmt.Sprintf("SELECT * FROM %s;", toks[1]), nil

	case "INSERT":
		if len(toks) >= 2 && textutil.FoldUpper(toks[1]) == "INTO" {
			return line, nil
		}
		if len(toks) != 4 {
			return "", storeerr.NewParseError("INSERT requires <table> <id> <name>")
		}
		return fmt.Sprintf("INSERT INTO %s VALUES (%s \"%s\");", toks[1], toks[2], toks[3]), nil

	case "TRUNCATE":
		if len(toks) != 2 {
			return "", storeerr.NewParseError("TRUNCATE requires exactly one table name")
		}
		return fmt.Sprintf("DELETE FROM %s;", toks[1]), nil

	case "INTERSECTION":
		return "SELECT * FROM A JOIN B ON A.id = B.id;", nil

	case "SYMMETRIC_DIFFERENCE":
		return "SELECT * FROM A FULL OUTER JOIN B ON A.id = B.id WHERE A.id IS NULL OR B.id IS NULL;", nil

	case "CREATE", "DELETE", "SELECT":
		return line, nil

	default:
		return line, nil
	}
}
