package diploma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayoutSet() LayoutSet {
	fields := map[Slot]Position{
		SlotAwardee:     {Y: 250, Size: 24},
		SlotCategory:    {Y: 210, Size: 16},
		SlotGroupGender: {Y: 170, Size: 14},
	}
	return LayoutSet{Tiers: map[string]Layout{
		"first":     {Template: "first.pdf", Fields: fields},
		DefaultTier: {Template: "default.pdf", Fields: fields},
	}}
}

func TestLayoutSet_ForTierFallsBackToDefault(t *testing.T) {
	t.Parallel()

	set := testLayoutSet()

	l, err := set.ForTier("first")
	require.NoError(t, err)
	assert.Equal(t, "first.pdf", l.Template)

	l, err = set.ForTier("third")
	require.NoError(t, err)
	assert.Equal(t, "default.pdf", l.Template)

	_, err = LayoutSet{}.ForTier("first")
	assert.ErrorIs(t, err, ErrTemplateUnavailable)
}

func TestLayout_FieldsFollowDrawOrder(t *testing.T) {
	t.Parallel()

	l, err := testLayoutSet().ForTier(DefaultTier)
	require.NoError(t, err)

	fields := l.Place(map[Slot]string{
		SlotAwardee:     "Ana Pop",
		SlotCategory:    "U12 Kata",
		SlotGroupGender: "U12 - Male",
		SlotClub:        "Dragon",
	})

	require.Len(t, fields, 3)
	assert.Equal(t, "U12 - Male", fields[0].Text)
	assert.Equal(t, 170.0, fields[0].Y)
	assert.Equal(t, "U12 Kata", fields[1].Text)
	assert.Equal(t, "Ana Pop", fields[2].Text)
	assert.Nil(t, fields[2].X)
}

func TestLayoutSet_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, testLayoutSet().Validate())
	assert.Error(t, LayoutSet{Tiers: map[string]Layout{"first": {Template: "a.pdf"}}}.Validate())
}

func TestFilenamePart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "U12_Kata", FilenamePart(" U12  Kata "))
	assert.Equal(t, "AB_C", FilenamePart("A/B C"))
}
