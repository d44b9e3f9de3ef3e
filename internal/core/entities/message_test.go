package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRecord_Validate(t *testing.T) {
	ok := MessageRecord{Name: "midGeneral_NoSuchFile", Category: CategoryErr, ID: ErrIDMin, Text: "No such file"}
	require.NoError(t, ok.Validate(1))

	badName := MessageRecord{Name: "1Bad", Category: CategoryErr, ID: ErrIDMin, Text: "x"}
	assert.Error(t, badName.Validate(1))

	badRange := MessageRecord{Name: "midFoo", Category: CategoryErr, ID: MsgIDMin, Text: "x"}
	assert.Error(t, badRange.Validate(1))

	empty := MessageRecord{Name: "midFoo", Category: CategoryErr, ID: ErrIDMin, Text: "   "}
	assert.Error(t, empty.Validate(1))
}

func TestMessageCatalogue_Add_RejectsDuplicateIDAcrossCategories(t *testing.T) {
	c := NewMessageCatalogue("err", "msg")
	require.NoError(t, c.Add(MessageRecord{Name: "midA", Category: CategoryErr, ID: ErrIDMin, Text: "a"}, 1))

	err := c.Add(MessageRecord{Name: "midB", Category: CategoryErr, ID: ErrIDMin, Text: "b"}, 2)
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindAlreadyExists, kind)
}

func TestRangeFor(t *testing.T) {
	min, max := RangeFor(CategoryCommon)
	assert.Equal(t, CommonIDMin, min)
	assert.Equal(t, CommonIDMax, max)

	min, max = RangeFor(CategoryMsg)
	assert.Equal(t, MsgIDMin, min)
	assert.Equal(t, MsgIDMax, max)
}
