// Package storetest provides an in-memory stand-in for the DynamoDB API
// slice the store uses. It understands exactly the expressions the store
// emits, nothing more.
package storetest

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type Client struct {
	KeyAttr string
	Items   map[string]map[string]types.AttributeValue

	// Err, when set, fails every call.
	Err error
}

func New(keyAttr string) *Client {
	return &Client{
		KeyAttr: keyAttr,
		Items:   map[string]map[string]types.AttributeValue{},
	}
}

func (c *Client) keyOf(m map[string]types.AttributeValue) string {
	if s, ok := m[c.KeyAttr].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (c *Client) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return &dynamodb.GetItemOutput{Item: c.Items[c.keyOf(in.Key)]}, nil
}

func (c *Client) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	key := c.keyOf(in.Item)
	if in.ConditionExpression != nil {
		if _, exists := c.Items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{
				Message: aws.String("The conditional request failed"),
			}
		}
	}
	c.Items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (c *Client) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	key := c.keyOf(in.Key)

	updated := map[string]types.AttributeValue{}
	for k, v := range in.Key {
		updated[k] = v
	}
	for k, v := range c.Items[key] {
		updated[k] = v
	}

	expr := strings.TrimPrefix(aws.ToString(in.UpdateExpression), "SET ")
	for _, assign := range strings.Split(expr, ", ") {
		parts := strings.SplitN(assign, " = ", 2)
		if len(parts) != 2 {
			continue
		}
		name := in.ExpressionAttributeNames[parts[0]]
		updated[name] = in.ExpressionAttributeValues[parts[1]]
	}

	c.Items[key] = updated
	return &dynamodb.UpdateItemOutput{Attributes: updated}, nil
}

func (c *Client) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	delete(c.Items, c.keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (c *Client) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	keys := make([]string, 0, len(c.Items))
	for k := range c.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := []map[string]types.AttributeValue{}
	for _, k := range keys {
		if matches(in, c.Items[k]) {
			items = append(items, c.Items[k])
		}
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

func matches(in *dynamodb.ScanInput, item map[string]types.AttributeValue) bool {
	if in.FilterExpression == nil {
		return true
	}
	attrValue := func(alias string) (string, bool) {
		name := in.ExpressionAttributeNames[alias]
		if s, ok := item[name].(*types.AttributeValueMemberS); ok {
			return s.Value, true
		}
		return "", false
	}
	exprValue := func(alias string) string {
		if s, ok := in.ExpressionAttributeValues[alias].(*types.AttributeValueMemberS); ok {
			return s.Value
		}
		return ""
	}

	expr := aws.ToString(in.FilterExpression)
	v, present := attrValue("#attr")
	switch {
	case strings.HasPrefix(expr, "begins_with"):
		return present && strings.HasPrefix(v, exprValue(":prefix"))
	case strings.Contains(expr, "BETWEEN"):
		return present && v >= exprValue(":lo") && v <= exprValue(":hi")
	default:
		return present && v == exprValue(":value")
	}
}
