package manifest

import (
	"bytes"
	"fmt"
)

// Marshal serializes an Atom back into the [atom] table of a TOML
// document. Omitted optional fields (Description) round-trip as absent,
// rather than as an empty string.
func Marshal(a Atom) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[atom]\n")
	fmt.Fprintf(&buf, "id = %q\n", a.Id.String())
	fmt.Fprintf(&buf, "version = %q\n", a.Version.String())
	if a.Description != nil {
		fmt.Fprintf(&buf, "description = %q\n", *a.Description)
	}
	return buf.Bytes(), nil
}
