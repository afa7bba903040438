package mongo

import (
	"regexp"
	"strings"

	"notedeck/internal/services/fault"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var dupIndexName = regexp.MustCompile(`index: (\S+)`)

// conflictFields extracts the key fields of the violated unique index from
// a duplicate-key error. Index names follow the driver's default
// "<field>_<dir>[_<field>_<dir>...]" convention, which both unique indexes
// in this database use.
func conflictFields(err error) []string {
	m := dupIndexName.FindStringSubmatch(err.Error())
	if m == nil {
		return nil
	}

	var fields []string
	var current []string
	for _, tok := range strings.Split(m[1], "_") {
		if tok == "1" || tok == "-1" {
			if len(current) > 0 {
				fields = append(fields, strings.Join(current, "_"))
				current = current[:0]
			}
			continue
		}
		current = append(current, tok)
	}
	return fields
}

// translateDuplicateKey maps a unique-index violation to *fault.Conflict,
// naming the first conflicting field that is not the owner id. Any other
// error is passed through unchanged.
func translateDuplicateKey(err error, kind string) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}

	fields := conflictFields(err)
	field := ""
	for _, f := range fields {
		if f != "owner_id" {
			field = f
			break
		}
	}
	if field == "" && len(fields) > 0 {
		field = fields[0]
	}
	if field == "" {
		field = "title"
	}

	return &fault.Conflict{Kind: kind, Field: field}
}
