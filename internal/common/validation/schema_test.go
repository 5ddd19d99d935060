package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-advisor/internal/common/errors"
)

func TestNewValidator_CompilesEmbeddedSchemas(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	assert.Equal(t, []string{
		SchemaAdvice, SchemaChatMessage, SchemaChatStart, SchemaClassify, SchemaEMI, SchemaProfile,
	}, v.Names())
}

func TestValidator_Profile(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		doc       string
		valid     bool
		badFields []string
	}{
		{
			name:  "complete profile",
			doc:   `{"monthlyIncome":75000,"age":32,"employmentType":"salaried","cityTier":1,"creditScore":780,"existingEmis":0}`,
			valid: true,
		},
		{
			name:  "credit score is optional",
			doc:   `{"monthlyIncome":75000,"age":32,"employmentType":"business","cityTier":2,"existingEmis":5000}`,
			valid: true,
		},
		{
			name:  "null credit score",
			doc:   `{"monthlyIncome":75000,"age":32,"employmentType":"business","cityTier":2,"creditScore":null,"existingEmis":0}`,
			valid: true,
		},
		{
			name:      "bad enum and range",
			doc:       `{"monthlyIncome":-1,"age":12,"employmentType":"pilot","cityTier":4,"existingEmis":0}`,
			badFields: []string{"monthlyIncome", "age", "employmentType", "cityTier"},
		},
		{
			name:      "fractional age",
			doc:       `{"monthlyIncome":1,"age":30.5,"employmentType":"salaried","cityTier":1,"existingEmis":0}`,
			badFields: []string{"age"},
		},
		{
			name:      "missing field",
			doc:       `{"monthlyIncome":1,"age":30,"employmentType":"salaried","cityTier":1}`,
			badFields: []string{"(root)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.Check(SchemaProfile, []byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
			for _, f := range tt.badFields {
				assert.True(t, result.HasErrors(f), "expected an error on %s, got %v", f, result.GetErrorMessages())
			}
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(SchemaEMI, []byte(`{"principal":500000,"annualRate":11,"tenureMonths":60}`)))
	assert.NoError(t, v.Validate(SchemaClassify, []byte(`{"purpose":"education","amount":100,"hasCollateral":false}`)))
	assert.NoError(t, v.Validate(SchemaChatStart, []byte(`{}`)))

	err = v.Validate(SchemaEMI, []byte(`{"principal":0,"annualRate":11,"tenureMonths":60}`))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidPayload))

	err = v.Validate(SchemaAdvice, []byte(`{"message":`))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidPayload))

	err = v.Validate("nope", []byte(`{}`))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidPayload))
}
