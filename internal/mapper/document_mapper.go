// FILE: internal/mapper/document_mapper.go
// Encode/decode boundary for schema-less JSON documents
package mapper

import (
	"encoding/json"

	"erp-featurestore-be/internal/entity"

	"gorm.io/datatypes"
)

// DecodeDocument parses a stored JSON object. Empty, malformed or non-object payloads
// decode to an empty document so rows written by older producers never break readers.
func DecodeDocument(raw datatypes.JSON) entity.Document {
	doc := entity.Document{}
	if len(raw) == 0 {
		return doc
	}
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return entity.Document{}
	}
	return doc
}

// EncodeDocument serializes a document for storage; nil encodes as {}.
func EncodeDocument(doc entity.Document) (datatypes.JSON, error) {
	if doc == nil {
		return datatypes.JSON("{}"), nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
