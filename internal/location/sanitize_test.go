package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidLabel(t *testing.T) {
	valid := []string{
		"gps",
		"GPS",
		"gps_tracker",
		"gps tracker 2",
		"0123456789",
		"_",
		" ",
		"a",
	}
	for _, s := range valid {
		assert.True(t, IsValidLabel(s), "expected %q to be valid", s)
	}

	invalid := []string{
		"",
		"bad!source",
		"gps-tracker",
		"gps;DROP TABLE locations",
		"gps\ttracker",
		"gps\n",
		"café",
		"über",
		"source'",
		"a.b",
	}
	for _, s := range invalid {
		assert.False(t, IsValidLabel(s), "expected %q to be invalid", s)
	}
}

func TestIsValidLabelFullAlphabet(t *testing.T) {
	// every character of the allowed alphabet in one label
	label := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_ "
	assert.True(t, IsValidLabel(label))

	// the pattern is anchored: one bad character anywhere rejects the label
	for _, bad := range []string{"!" + label, label + "!", label[:10] + "!" + label[10:]} {
		assert.False(t, IsValidLabel(bad))
	}
}
