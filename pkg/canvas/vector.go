package canvas

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNotSVG = errors.New("root element is not <svg>")

// validateSVG checks that markup is a well-formed XML document rooted at
// an svg element.
func validateSVG(markup string) error {
	dec := xml.NewDecoder(strings.NewReader(markup))
	root := ""
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed markup: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && root == "" {
			root = se.Name.Local
		}
	}
	if !strings.EqualFold(root, "svg") {
		return errNotSVG
	}
	return nil
}
