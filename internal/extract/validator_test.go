package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railatlas/railatlas/internal/unit"
)

// Test Plan for the validator extractor:
// - EachValidator subclasses classify as each_validator
// - Validator subclasses classify as validator
// - Without framework inheritance, a validate_each(a, b, c) signature still
//   classifies as each_validator
// - A validate(record) signature classifies as validator
// - Classes with neither inheritance nor signature yield nil
// - errors.add messages are collected whether symbolic or quoted
// - options[:key] accesses populate options_used
// - The class name infers a model; peer validator references become edges

func TestValidatorExtractor_EachValidator(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeAppFile(t, root, "app/validators/email_validator.rb", `
class EmailValidator < ActiveModel::EachValidator
  def validate_each(record, attribute, value)
    return if value =~ URI::MailTo::EMAIL_REGEXP
    if options[:strict]
      record.errors.add(attribute, :invalid_email)
    else
      record.errors.add(attribute, "is not a valid address")
    end
  end
end
`)

	u := NewValidatorExtractor(root).ExtractFile(path)
	require.NotNil(t, u)

	assert.Equal(t, "EmailValidator", u.Identifier)
	assert.Equal(t, unit.KindValidator, u.Kind)
	assert.Equal(t, "each_validator", u.Metadata["validator_type"].Str())
	assert.Equal(t, []string{"invalid_email", "is not a valid address"},
		u.Metadata["error_messages"].Strs())
	assert.Equal(t, []string{"strict"}, u.Metadata["options_used"].Strs())
	assert.Equal(t, []string{"Email"}, u.Metadata["inferred_models"].Strs())
	assert.Empty(t, u.Dependencies, "framework base classes are not peers")
}

func TestValidatorExtractor_RecordValidator(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeAppFile(t, root, "app/validators/shipment_validator.rb", `
class ShipmentValidator < ActiveModel::Validator
  def validate(record)
    record.errors.add(:base, :unshippable) unless record.weight.positive?
  end
end
`)

	u := NewValidatorExtractor(root).ExtractFile(path)
	require.NotNil(t, u)
	assert.Equal(t, "validator", u.Metadata["validator_type"].Str())
	assert.Equal(t, []string{"unshippable"}, u.Metadata["error_messages"].Strs())
}

func TestValidatorExtractor_SignatureShapeWithoutInheritance(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	e := NewValidatorExtractor(root)

	each := writeAppFile(t, root, "app/validators/zip_code_validator.rb", `
class ZipCodeValidator
  def validate_each(record, attribute, value)
  end
end
`)
	u := e.ExtractFile(each)
	require.NotNil(t, u)
	assert.Equal(t, "each_validator", u.Metadata["validator_type"].Str())

	record := writeAppFile(t, root, "app/validators/consistency_check.rb", `
class ConsistencyCheck
  def validate(record)
  end
end
`)
	u = e.ExtractFile(record)
	require.NotNil(t, u)
	assert.Equal(t, "validator", u.Metadata["validator_type"].Str())
	assert.Empty(t, u.Metadata["inferred_models"].Strs(),
		"no Validator suffix, no inferred model")
}

func TestValidatorExtractor_PeerReferences(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeAppFile(t, root, "app/validators/address_validator.rb", `
class AddressValidator < ActiveModel::EachValidator
  def validate_each(record, attribute, value)
    ZipCodeValidator.new(attributes: [:zip]).validate_each(record, :zip, value.zip)
  end
end
`)

	u := NewValidatorExtractor(root).ExtractFile(path)
	require.NotNil(t, u)
	requireVias(t, []unit.CodeUnit{*u})

	require.Len(t, u.Dependencies, 1)
	assert.Equal(t, unit.DepValidator, u.Dependencies[0].Type)
	assert.Equal(t, "ZipCodeValidator", u.Dependencies[0].Target)
	assert.Equal(t, unit.ViaCodeReference, u.Dependencies[0].Via)
}

func TestValidatorExtractor_UnrecognizedClassYieldsNil(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeAppFile(t, root, "app/validators/helper.rb",
		"class ValidatorHelpers\n  def normalize(value)\n    value.to_s.strip\n  end\nend\n")

	assert.Nil(t, NewValidatorExtractor(root).ExtractFile(path))
}

func TestValidatorExtractor_ExtractAll(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAppFile(t, root, "app/validators/email_validator.rb",
		"class EmailValidator < ActiveModel::EachValidator\nend\n")
	writeAppFile(t, root, "app/validators/notes.md", "not ruby\n")

	units := NewValidatorExtractor(root).ExtractAll(context.Background())
	require.Len(t, units, 1)
	assert.Equal(t, "EmailValidator", units[0].Identifier)
}
