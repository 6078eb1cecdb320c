package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore implements KVStore using DynamoDB. Keys stored via PutWithTTL
// carry a ttl attribute; DynamoDB reaps them lazily, so Get re-checks the
// deadline itself.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// NewDynamoStore creates a DynamoDB storage backend.
func NewDynamoStore(tableName string) (*DynamoStore, error) {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, err
	}
	return &DynamoStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

func (d *DynamoStore) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return "", err
	}
	if result.Item == nil {
		return "", ErrKeyNotFound
	}
	if expired(result.Item, time.Now()) {
		return "", ErrKeyNotFound
	}
	value, ok := result.Item["value"].(*types.AttributeValueMemberS)
	if !ok {
		return "", ErrKeyNotFound
	}
	return value.Value, nil
}

func (d *DynamoStore) Put(key, value string) error {
	return d.PutWithTTL(key, value, 0)
}

func (d *DynamoStore) PutWithTTL(key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	item := map[string]types.AttributeValue{
		"id":    &types.AttributeValueMemberS{Value: key},
		"value": &types.AttributeValueMemberS{Value: value},
	}
	if ttl > 0 {
		deadline := time.Now().Add(ttl).Unix()
		item["ttl"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(deadline, 10)}
	}

	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	return err
}

func (d *DynamoStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: key},
		},
	})
	return err
}

func (d *DynamoStore) List() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	var keys []string
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName:            aws.String(d.tableName),
		ProjectionExpression: aws.String("id, #ttl"),
		ExpressionAttributeNames: map[string]string{
			"#ttl": "ttl",
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if expired(item, now) {
				continue
			}
			if id, ok := item["id"].(*types.AttributeValueMemberS); ok {
				keys = append(keys, id.Value)
			}
		}
	}
	return keys, nil
}

func (d *DynamoStore) Exists(key string) (bool, error) {
	_, err := d.Get(key)
	if err == ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *DynamoStore) Close() error {
	return nil
}

// expired checks the ttl attribute of an item against now.
func expired(item map[string]types.AttributeValue, now time.Time) bool {
	attr, ok := item["ttl"].(*types.AttributeValueMemberN)
	if !ok {
		return false
	}
	deadline, err := strconv.ParseInt(attr.Value, 10, 64)
	if err != nil {
		return false
	}
	return now.Unix() > deadline
}
