package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

type bookingRequest struct {
	Date  string `validate:"required,date"`
	Time  string `validate:"required,clock"`
	Phone string `validate:"omitempty,phone"`
}

type pricePatch struct {
	Price  patch.Field[float64] `validate:"omitempty,gte=0"`
	Status patch.Field[string]  `validate:"omitempty,oneof=active hidden out_of_stock"`
}

func TestCustomTags(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(bookingRequest{Date: "2026-03-14", Time: "09:30", Phone: "+27 82 555 0101"}))

	err := v.Struct(bookingRequest{Date: "14/03/2026", Time: "9h30"})
	require.Error(t, err)
	errs := v.ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "date", errs[0].Tag())
	assert.Equal(t, "clock", errs[1].Tag())
}

func TestPatchFieldsValidateInnerValue(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(pricePatch{}), "absent fields are skipped")
	assert.NoError(t, v.Struct(pricePatch{Price: patch.Some(0.0), Status: patch.Some("hidden")}))

	err := v.Struct(pricePatch{Price: patch.Some(-1.0)})
	require.Error(t, err)
	assert.Equal(t, "gte", v.ValidationErrors(err)[0].Tag())

	err = v.Struct(pricePatch{Status: patch.Some("archived")})
	require.Error(t, err)
	assert.Equal(t, "oneof", v.ValidationErrors(err)[0].Tag())
}

type step struct {
	Name  string `validate:"required"`
	Weeks int    `validate:"gte=0"`
}

type stepsPatch struct {
	Steps patch.Field[[]step] `validate:"omitempty,dive"`
}

func TestRegisterOptionalDivesIntoSlices(t *testing.T) {
	v := New()
	v.RegisterOptional(patch.Field[[]step]{})

	assert.NoError(t, v.Struct(stepsPatch{}))
	assert.NoError(t, v.Struct(stepsPatch{Steps: patch.Some([]step{{Name: "Prep", Weeks: 2}})}))

	err := v.Struct(stepsPatch{Steps: patch.Some([]step{{Name: "", Weeks: -1}})})
	require.Error(t, err)
	tags := []string{}
	for _, fe := range v.ValidationErrors(err) {
		tags = append(tags, fe.Tag())
	}
	assert.ElementsMatch(t, []string{"required", "gte"}, tags)
}
