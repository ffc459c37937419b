package bytecode

import "fmt"

// TryCatch describes a protected region of a method. Execution between the
// Start and End labels that raises an exception assignable to Type continues
// at Handler. An empty Type catches everything.
type TryCatch struct {
	Start   Label
	End     Label
	Handler Label
	Type    string
}

// CatchesAll reports whether the region handles every exception type.
func (tc TryCatch) CatchesAll() bool {
	return tc.Type == ""
}

func (tc TryCatch) String() string {
	typ := tc.Type
	if typ == "" {
		typ = "*"
	}
	return fmt.Sprintf("%s..%s -> %s (%s)", tc.Start, tc.End, tc.Handler, typ)
}
