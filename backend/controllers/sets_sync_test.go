package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func cardID(id uint) *uint { return &id }

func TestDiffCardsPartitionsDesiredState(t *testing.T) {
	existing := []uint{1, 2, 3}
	desired := []CardInput{
		{ID: cardID(1), Question: "q1", Answer: "a1"},
		{Question: "new", Answer: "card"},
		{ID: cardID(3), Question: "q3", Answer: "a3"},
	}

	diff := diffCards(existing, desired)

	assert.Len(t, diff.ToUpdate, 2)
	assert.Equal(t, uint(1), *diff.ToUpdate[0].ID)
	assert.Equal(t, uint(3), *diff.ToUpdate[1].ID)
	assert.Len(t, diff.ToAdd, 1)
	assert.Equal(t, "new", diff.ToAdd[0].Question)
	assert.Equal(t, []uint{2}, diff.ToDelete)
}

func TestDiffCardsDropsForeignIDs(t *testing.T) {
	existing := []uint{1}
	desired := []CardInput{
		{ID: cardID(99), Question: "stolen", Answer: "card"},
		{ID: cardID(1), Question: "q1", Answer: "a1"},
	}

	diff := diffCards(existing, desired)

	assert.Len(t, diff.ToUpdate, 1)
	assert.Empty(t, diff.ToAdd)
	assert.Empty(t, diff.ToDelete)
}

func TestDiffCardsEmptyDesiredDeletesEverything(t *testing.T) {
	diff := diffCards([]uint{4, 5}, nil)

	assert.Empty(t, diff.ToUpdate)
	assert.Empty(t, diff.ToAdd)
	assert.Equal(t, []uint{4, 5}, diff.ToDelete)
}

func TestDiffCardsPreservesInsertOrder(t *testing.T) {
	desired := []CardInput{
		{Question: "first", Answer: "a"},
		{Question: "second", Answer: "b"},
		{Question: "third", Answer: "c"},
	}

	diff := diffCards(nil, desired)

	assert.Len(t, diff.ToAdd, 3)
	assert.Equal(t, "first", diff.ToAdd[0].Question)
	assert.Equal(t, "second", diff.ToAdd[1].Question)
	assert.Equal(t, "third", diff.ToAdd[2].Question)
}

func TestOptionalUintDistinguishesOmittedNullAndValue(t *testing.T) {
	type payload struct {
		FolderID OptionalUint `json:"folderId"`
	}

	var omitted payload
	assert.NoError(t, json.Unmarshal([]byte(`{}`), &omitted))
	assert.False(t, omitted.FolderID.Present)

	var cleared payload
	assert.NoError(t, json.Unmarshal([]byte(`{"folderId": null}`), &cleared))
	assert.True(t, cleared.FolderID.Present)
	assert.Nil(t, cleared.FolderID.Value)

	var set payload
	assert.NoError(t, json.Unmarshal([]byte(`{"folderId": 7}`), &set))
	assert.True(t, set.FolderID.Present)
	assert.NotNil(t, set.FolderID.Value)
	assert.Equal(t, uint(7), *set.FolderID.Value)
}

func TestValidateCardRequiresQuestionAndAnswer(t *testing.T) {
	assert.NoError(t, validateCard(CardInput{Question: "q", Answer: "a"}))
	assert.ErrorIs(t, validateCard(CardInput{Answer: "a"}), errInvalidCard)
	assert.ErrorIs(t, validateCard(CardInput{Question: "q"}), errInvalidCard)
	assert.ErrorIs(t, validateCard(CardInput{Question: "   ", Answer: "a"}), errInvalidCard)
}
