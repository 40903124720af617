package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/benefits-portal-api/internal/domain"
)

// ValidationCodeRepo manages validation code documents and their redemption
// history records. PK: code_id = "{tenant_id}_{user_id}_{code}".
type ValidationCodeRepo struct {
	client       *dynamodb.Client
	tableName    string
	historyTable string
}

func NewValidationCodeRepo(client *dynamodb.Client, tableName, historyTable string) *ValidationCodeRepo {
	return &ValidationCodeRepo{client: client, tableName: tableName, historyTable: historyTable}
}

// PutNew persists a freshly generated code. The attribute_not_exists guard
// turns a composite-id collision into ErrConflict so the caller can redraw.
func (r *ValidationCodeRepo) PutNew(ctx context.Context, vc *domain.ValidationCode) error {
	item, err := attributevalue.MarshalMap(vc)
	if err != nil {
		return fmt.Errorf("marshal validation code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(code_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("code id %s already exists: %w", vc.CodeID, domain.ErrConflict)
	}
	return err
}

func (r *ValidationCodeRepo) Get(ctx context.Context, codeID string) (*domain.ValidationCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("code_id", codeID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("validation code: %w", domain.ErrNotFound)
	}
	var vc domain.ValidationCode
	if err := attributevalue.UnmarshalMap(out.Item, &vc); err != nil {
		return nil, err
	}
	return &vc, nil
}

// Redeem marks the code used and writes its history record in a single
// TransactWriteItems call. The code update is guarded by
// "used = false AND expires_at > now" and the history put by
// attribute_not_exists, so a code can never end up used without exactly one
// history record. A failed guard surfaces as ErrConflict (the caller
// re-reads to distinguish already-used from expired); a transaction conflict
// surfaces as ErrTransient.
func (r *ValidationCodeRepo) Redeem(ctx context.Context, codeID string, usedAt time.Time, record *domain.RedemptionRecord) error {
	usedAtAV, err := attributevalue.Marshal(usedAt)
	if err != nil {
		return fmt.Errorf("marshal used_at: %w", err)
	}
	recordItem, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal redemption record: %w", err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:           aws.String(r.tableName),
					Key:                 strKey("code_id", codeID),
					UpdateExpression:    aws.String("SET #u = :t, used_at = :ts"),
					ConditionExpression: aws.String("attribute_exists(code_id) AND #u = :f AND expires_at > :now"),
					ExpressionAttributeNames: map[string]string{
						"#u": "used",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":t":   &types.AttributeValueMemberBOOL{Value: true},
						":f":   &types.AttributeValueMemberBOOL{Value: false},
						":ts":  usedAtAV,
						":now": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", usedAt.Unix())},
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(r.historyTable),
					Item:                recordItem,
					ConditionExpression: aws.String("attribute_not_exists(record_id)"),
				},
			},
		},
	})
	if err != nil {
		conditionFailed, conflict := transactionConditionFailed(err)
		if conditionFailed {
			return fmt.Errorf("code no longer redeemable: %w", domain.ErrConflict)
		}
		if conflict {
			return fmt.Errorf("redeem %s: %w", codeID, domain.ErrTransient)
		}
		return err
	}
	return nil
}
