// Package store is a thin façade over a single-table DynamoDB collection
// keyed by one string attribute. Listing is a full-table scan with optional
// server-side filtering; collections here are small and scanning them is the
// intended access path, not a shortcut.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the slice of the DynamoDB client the store uses. Tests swap in fakes.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store provides keyed access to records of type T stored in one table.
type Store[T any] struct {
	api     API
	table   string
	keyAttr string

	// Now stamps updated_at on partial updates; tests pin it.
	Now func() time.Time
}

func New[T any](api API, table, keyAttr string) *Store[T] {
	return &Store[T]{
		api:     api,
		table:   table,
		keyAttr: keyAttr,
		Now:     time.Now,
	}
}

func (s *Store[T]) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.keyAttr: &types.AttributeValueMemberS{Value: key},
	}
}

// Get returns the record at key, or ErrNotFound.
func (s *Store[T]) Get(ctx context.Context, key string) (T, error) {
	var rec T
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(key),
	})
	if err != nil {
		return rec, err
	}
	if len(out.Item) == 0 {
		return rec, ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// List scans the whole table, optionally narrowed by a server-side filter.
func (s *Store[T]) List(ctx context.Context, filter *Filter) ([]T, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(s.table)}
	if filter != nil {
		in.FilterExpression = aws.String(filter.expression)
		in.ExpressionAttributeNames = filter.names
		in.ExpressionAttributeValues = filter.values
	}
	out, err := s.api.Scan(ctx, in)
	if err != nil {
		return nil, err
	}
	recs := []T{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Create writes the record. With unique set, the put is conditional on the
// key attribute not existing yet and a taken key surfaces as ErrConflict;
// without it, an existing record at the key is silently overwritten.
func (s *Store[T]) Create(ctx context.Context, rec T, unique bool) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return err
	}
	in := &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}
	if unique {
		in.ConditionExpression = aws.String("attribute_not_exists(#key)")
		in.ExpressionAttributeNames = map[string]string{"#key": s.keyAttr}
	}
	if _, err := s.api.PutItem(ctx, in); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Update applies a partial update to the record at key and returns the merged
// record. The record is read first: an absent key returns ErrNotFound without
// writing anything.
func (s *Store[T]) Update(ctx context.Context, key string, patch Patch) (T, error) {
	var rec T
	if _, err := s.Get(ctx, key); err != nil {
		return rec, err
	}

	expr, names, values, err := patch.Build(s.Now().UTC())
	if err != nil {
		return rec, err
	}

	out, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(key),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return rec, err
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Delete removes the record at key. Deleting an absent key succeeds.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(key),
	})
	return err
}
