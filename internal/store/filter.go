package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Filter is a server-side scan filter. Attribute names are always aliased so
// reserved words like duration or location stay usable.
type Filter struct {
	expression string
	names      map[string]string
	values     map[string]types.AttributeValue
}

// FieldEquals matches records whose attribute equals value.
func FieldEquals(attr, value string) *Filter {
	return &Filter{
		expression: "#attr = :value",
		names:      map[string]string{"#attr": attr},
		values: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: value},
		},
	}
}

// Between matches records whose attribute sorts between lo and hi inclusive.
// Meant for ISO-8601 timestamp attributes, which sort lexicographically.
func Between(attr, lo, hi string) *Filter {
	return &Filter{
		expression: "#attr BETWEEN :lo AND :hi",
		names:      map[string]string{"#attr": attr},
		values: map[string]types.AttributeValue{
			":lo": &types.AttributeValueMemberS{Value: lo},
			":hi": &types.AttributeValueMemberS{Value: hi},
		},
	}
}

// BeginsWith matches records whose attribute starts with prefix, e.g. a
// YYYY-MM-DD prefix of a stored timestamp.
func BeginsWith(attr, prefix string) *Filter {
	return &Filter{
		expression: "begins_with(#attr, :prefix)",
		names:      map[string]string{"#attr": attr},
		values: map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: prefix},
		},
	}
}
