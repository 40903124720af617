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

// PartnerRepo provides typed DynamoDB operations for the partners table and
// its deleted_benefits archive table. Benefit entries live as fields of the
// "benefits" map attribute inside each partner item.
type PartnerRepo struct {
	client       *dynamodb.Client
	tableName    string
	archiveTable string
}

func NewPartnerRepo(client *dynamodb.Client, tableName, archiveTable string) *PartnerRepo {
	return &PartnerRepo{client: client, tableName: tableName, archiveTable: archiveTable}
}

func (r *PartnerRepo) Put(ctx context.Context, p *domain.Partner) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal partner: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PartnerRepo) Get(ctx context.Context, partnerID string) (*domain.Partner, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("partner_id", partnerID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("partner %s: %w", partnerID, domain.ErrNotFound)
	}
	var p domain.Partner
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByTenant queries the tenant_id GSI for all partners of one tenant.
func (r *PartnerRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Partner, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("tenant_id-index"),
		KeyConditionExpression: aws.String("tenant_id = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: tenantID},
		},
	})
	if err != nil {
		return nil, err
	}
	var partners []domain.Partner
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

func (r *PartnerRepo) Update(ctx context.Context, partnerID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("partner_id", partnerID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(partner_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("partner %s: %w", partnerID, domain.ErrNotFound)
	}
	return err
}

func (r *PartnerRepo) SoftDelete(ctx context.Context, partnerID string) error {
	return r.Update(ctx, partnerID, map[string]interface{}{
		fieldActive:    false,
		fieldDeletedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// PutBenefit creates or replaces a single benefit field inside the partner's
// benefits map. Fails with ErrNotFound if the partner item does not exist.
func (r *PartnerRepo) PutBenefit(ctx context.Context, partnerID, benefitID string, value domain.BenefitValue) error {
	av, err := value.MarshalDynamoDBAttributeValue()
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("partner_id", partnerID),
		UpdateExpression:    aws.String("SET benefits.#bid = :val, #ua = :now"),
		ConditionExpression: aws.String("attribute_exists(partner_id)"),
		ExpressionAttributeNames: map[string]string{
			"#bid": benefitID,
			"#ua":  fieldUpdatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":val": av,
			":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("partner %s: %w", partnerID, domain.ErrNotFound)
	}
	return err
}

// maxBenefitDeleteAttempts bounds re-reads when a concurrent write keeps
// moving the benefit field out from under the delete.
const maxBenefitDeleteAttempts = 3

// benefitRemoveUpdate builds the guarded REMOVE for one benefit field. The
// condition pins the field to the snapshot read just before the write, so a
// concurrent replacement fails the condition instead of being silently
// removed with only the stale snapshot preserved.
func benefitRemoveUpdate(tableName, partnerID, benefitID string, snapshot types.AttributeValue) *types.Update {
	return &types.Update{
		TableName:                aws.String(tableName),
		Key:                      strKey("partner_id", partnerID),
		UpdateExpression:         aws.String("REMOVE benefits.#bid"),
		ConditionExpression:      aws.String("benefits.#bid = :snap"),
		ExpressionAttributeNames: map[string]string{"#bid": benefitID},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":snap": snapshot,
		},
	}
}

// DeleteBenefitHard removes the benefit field with no trace. The removal is
// conditioned on the field still holding the value just read, so a concurrent
// replacement or removal forces a re-read: the next pass either retries on
// the new value or reports the no-op.
// Returns (nil, nil) when the benefit field is absent.
func (r *PartnerRepo) DeleteBenefitHard(ctx context.Context, partnerID, benefitID string) (*domain.ArchivedBenefit, error) {
	for attempt := 0; attempt < maxBenefitDeleteAttempts; attempt++ {
		removed, snapshot, err := r.readBenefit(ctx, partnerID, benefitID)
		if err != nil || removed == nil {
			return nil, err
		}

		upd := benefitRemoveUpdate(r.tableName, partnerID, benefitID, snapshot)
		_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 upd.TableName,
			Key:                       upd.Key,
			UpdateExpression:          upd.UpdateExpression,
			ConditionExpression:       upd.ConditionExpression,
			ExpressionAttributeNames:  upd.ExpressionAttributeNames,
			ExpressionAttributeValues: upd.ExpressionAttributeValues,
		})
		if isConditionalCheckFailed(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		removed.DeletedAt = ""
		return removed, nil
	}
	return nil, fmt.Errorf("delete benefit %s: %w", benefitID, domain.ErrTransient)
}

// DeleteBenefitSoft archives the benefit into the deleted_benefits table and
// removes the field from the parent item in one TransactWriteItems call;
// either both writes commit or neither does. The removal is conditioned on
// the field still holding the value captured for the archive, so the archived
// copy is always the value that was actually removed.
// Returns (nil, nil) when the benefit field is absent.
func (r *PartnerRepo) DeleteBenefitSoft(ctx context.Context, partnerID, benefitID string) (*domain.ArchivedBenefit, error) {
	for attempt := 0; attempt < maxBenefitDeleteAttempts; attempt++ {
		archived, snapshot, err := r.readBenefit(ctx, partnerID, benefitID)
		if err != nil || archived == nil {
			return nil, err
		}
		archived.DeletedAt = time.Now().UTC().Format(time.RFC3339)

		archiveItem, err := attributevalue.MarshalMap(archived)
		if err != nil {
			return nil, fmt.Errorf("marshal archived benefit: %w", err)
		}

		_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				{
					Update: benefitRemoveUpdate(r.tableName, partnerID, benefitID, snapshot),
				},
				{
					Put: &types.Put{
						TableName: aws.String(r.archiveTable),
						Item:      archiveItem,
					},
				},
			},
		})
		if err == nil {
			return archived, nil
		}
		conditionFailed, conflict := transactionConditionFailed(err)
		if conditionFailed || conflict {
			// Field vanished or changed since the read; the next pass
			// re-reads and either reports the no-op or retries on the
			// new value.
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("archive benefit %s: %w", benefitID, domain.ErrTransient)
}

// ListDeletedBenefits returns the archive entries for one partner.
func (r *PartnerRepo) ListDeletedBenefits(ctx context.Context, partnerID string) ([]domain.ArchivedBenefit, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.archiveTable),
		KeyConditionExpression: aws.String("partner_id = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: partnerID},
		},
	})
	if err != nil {
		return nil, err
	}
	var archived []domain.ArchivedBenefit
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &archived); err != nil {
		return nil, err
	}
	return archived, nil
}

// readBenefit loads the partner item and extracts one benefit field, coerced
// to a mapping, along with the raw attribute value for use as a write-guard
// snapshot. A missing partner is an error; a missing field returns nil.
func (r *PartnerRepo) readBenefit(ctx context.Context, partnerID, benefitID string) (*domain.ArchivedBenefit, types.AttributeValue, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("partner_id", partnerID),
	})
	if err != nil {
		return nil, nil, err
	}
	if out.Item == nil {
		return nil, nil, fmt.Errorf("partner %s: %w", partnerID, domain.ErrNotFound)
	}

	benefits, ok := out.Item["benefits"].(*types.AttributeValueMemberM)
	if !ok {
		return nil, nil, nil
	}
	raw, ok := benefits.Value[benefitID]
	if !ok {
		return nil, nil, nil
	}
	data, err := coerceBenefitData(raw)
	if err != nil {
		return nil, nil, err
	}

	tenantID := ""
	if t, ok := out.Item["tenant_id"].(*types.AttributeValueMemberS); ok {
		tenantID = t.Value
	}
	return &domain.ArchivedBenefit{
		PartnerID: partnerID,
		BenefitID: benefitID,
		TenantID:  tenantID,
		Data:      data,
	}, raw, nil
}

// coerceBenefitData turns a raw benefit attribute into a mapping: map values
// keep their fields, scalar values become a one-key {"value": ...} mapping.
func coerceBenefitData(av types.AttributeValue) (map[string]interface{}, error) {
	if m, ok := av.(*types.AttributeValueMemberM); ok {
		var data map[string]interface{}
		if err := attributevalue.UnmarshalMap(m.Value, &data); err != nil {
			return nil, fmt.Errorf("unmarshal benefit: %w", err)
		}
		return data, nil
	}
	var v interface{}
	if err := attributevalue.Unmarshal(av, &v); err != nil {
		return nil, fmt.Errorf("unmarshal benefit scalar: %w", err)
	}
	return map[string]interface{}{"value": v}, nil
}
