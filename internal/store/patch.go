package store

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Patch is a partial update: an ordered whitelist of mutable fields and the
// sparse input map deserialized from a request body.
type Patch struct {
	fields []string
	input  map[string]any
}

func NewPatch(whitelist []string, input map[string]any) Patch {
	return Patch{fields: whitelist, input: input}
}

// Build renders the SET expression. A whitelisted field is included only when
// the input holds a truthy value for it; absent or falsy values leave the
// stored field unchanged, so clearing a field to empty is not possible
// through a patch. updated_at is always stamped, even for an all-falsy input.
func (p Patch) Build(now time.Time) (string, map[string]string, map[string]types.AttributeValue, error) {
	expr := "SET"
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	count := 0
	for _, field := range p.fields {
		v, ok := p.input[field]
		if !ok || !truthy(v) {
			continue
		}
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return "", nil, nil, fmt.Errorf("marshal %s: %w", field, err)
		}
		if count == 0 {
			expr += fmt.Sprintf(" #%s = :%s", field, field)
		} else {
			expr += fmt.Sprintf(", #%s = :%s", field, field)
		}
		names["#"+field] = field
		values[":"+field] = av
		count++
	}

	if count == 0 {
		expr += " #updated_at = :updated_at"
	} else {
		expr += ", #updated_at = :updated_at"
	}
	names["#updated_at"] = "updated_at"
	values[":updated_at"] = &types.AttributeValueMemberS{Value: now.UTC().Format(isoMillis)}

	return expr, names, values, nil
}

// truthy decides whether an input value counts as a new value. Empty strings,
// empty lists, zeros, false and null all mean "leave unchanged".
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	default:
		return true
	}
}
