package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed cv.schema.json
var cvSchema []byte

// Validate checks a document against the embedded CV JSON schema. The wizard
// never gates on validity, so this runs only where an invalid document would
// actually hurt: before handing it to the PDF endpoint.
func Validate(doc CVData) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(cvSchema),
		gojsonschema.NewBytesLoader(b),
	)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
