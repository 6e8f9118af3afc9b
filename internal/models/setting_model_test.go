package models

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetting_LabelPersistedEvenWhenEmpty(t *testing.T) {
	field, ok := reflect.TypeOf(Setting{}).FieldByName("Label")
	require.True(t, ok)

	// Listings order by label. With omitempty, a label-less document would
	// never carry the field and Firestore's orderBy would drop it from every
	// listing, so the tag must persist the empty string.
	assert.Equal(t, "label", field.Tag.Get("firestore"))
}

func TestSetting_CloneIsIndependent(t *testing.T) {
	original := &Setting{
		Key:   "clone_test",
		Value: map[string]any{"token": "secret"},
	}

	clone := original.Clone()
	clone.Value["token"] = "changed"
	clone.Key = "other"

	assert.Equal(t, "secret", original.Value["token"])
	assert.Equal(t, "clone_test", original.Key)
}
