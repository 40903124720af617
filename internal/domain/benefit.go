package domain

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Benefit delete modes.
const (
	DeleteModeHard = "hard"
	DeleteModeSoft = "soft"
)

// Benefit is the structured form of a benefit entry embedded in a partner document.
type Benefit struct {
	Type      string `json:"type" dynamodbav:"type"`
	Status    string `json:"status" dynamodbav:"status"`
	Audience  string `json:"audience" dynamodbav:"audience"` // "employee" | "student" | "all"
	ValueType string `json:"value_type" dynamodbav:"value_type"`
	Value     string `json:"value" dynamodbav:"value"`
}

// BenefitValue is the sum type for a benefit field inside a partner document:
// either a structured Benefit record or a bare scalar left behind by legacy imports.
// "Field absent" is represented by the key missing from Partner.Benefits, never by
// a zero BenefitValue.
type BenefitValue struct {
	Record *Benefit
	Scalar *string
}

func RecordValue(b Benefit) BenefitValue { return BenefitValue{Record: &b} }
func ScalarValue(s string) BenefitValue  { return BenefitValue{Scalar: &s} }

// AsMap coerces the value to a mapping: a structured record keeps its fields,
// a scalar becomes a one-key {"value": ...} mapping. Used when archiving.
func (v BenefitValue) AsMap() map[string]interface{} {
	if v.Record != nil {
		return map[string]interface{}{
			"type":       v.Record.Type,
			"status":     v.Record.Status,
			"audience":   v.Record.Audience,
			"value_type": v.Record.ValueType,
			"value":      v.Record.Value,
		}
	}
	if v.Scalar != nil {
		return map[string]interface{}{"value": *v.Scalar}
	}
	return map[string]interface{}{}
}

func (v BenefitValue) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if v.Record != nil {
		item, err := attributevalue.MarshalMap(v.Record)
		if err != nil {
			return nil, fmt.Errorf("marshal benefit record: %w", err)
		}
		return &types.AttributeValueMemberM{Value: item}, nil
	}
	if v.Scalar != nil {
		return &types.AttributeValueMemberS{Value: *v.Scalar}, nil
	}
	return &types.AttributeValueMemberNULL{Value: true}, nil
}

func (v *BenefitValue) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch t := av.(type) {
	case *types.AttributeValueMemberM:
		var b Benefit
		if err := attributevalue.UnmarshalMap(t.Value, &b); err != nil {
			return fmt.Errorf("unmarshal benefit record: %w", err)
		}
		v.Record = &b
		v.Scalar = nil
	case *types.AttributeValueMemberS:
		v.Record = nil
		v.Scalar = &t.Value
	case *types.AttributeValueMemberN:
		v.Record = nil
		v.Scalar = &t.Value
	case *types.AttributeValueMemberNULL:
		v.Record = nil
		v.Scalar = nil
	default:
		return fmt.Errorf("unsupported benefit attribute type %T", av)
	}
	return nil
}

func (v BenefitValue) MarshalJSON() ([]byte, error) {
	if v.Record != nil {
		return json.Marshal(v.Record)
	}
	if v.Scalar != nil {
		return json.Marshal(*v.Scalar)
	}
	return []byte("null"), nil
}

func (v *BenefitValue) UnmarshalJSON(data []byte) error {
	var b Benefit
	if err := json.Unmarshal(data, &b); err == nil && (b.Type != "" || b.ValueType != "") {
		v.Record = &b
		v.Scalar = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Record = nil
		v.Scalar = &s
		return nil
	}
	return fmt.Errorf("benefit value must be an object or a string")
}

// ArchivedBenefit is what both delete modes hand back to the caller.
// Data holds the original field value coerced to a mapping. DeletedAt is set
// (UTC, ISO-8601) only on soft delete, which also persists this record in the
// deleted_benefits table.
type ArchivedBenefit struct {
	PartnerID string                 `json:"partner_id" dynamodbav:"partner_id"`
	BenefitID string                 `json:"benefit_id" dynamodbav:"benefit_id"`
	TenantID  string                 `json:"tenant_id,omitempty" dynamodbav:"tenant_id"`
	Data      map[string]interface{} `json:"data" dynamodbav:"data"`
	DeletedAt string                 `json:"_deleted_at,omitempty" dynamodbav:"_deleted_at,omitempty"`
}

type UpsertBenefitRequest struct {
	Type      string `json:"type" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=active inactive"`
	Audience  string `json:"audience" validate:"required,oneof=employee student all"`
	ValueType string `json:"value_type" validate:"required,oneof=percent fixed text"`
	Value     string `json:"value" validate:"required"`
}
