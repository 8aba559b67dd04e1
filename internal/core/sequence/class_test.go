package sequence

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassFormat(t *testing.T) {
	tests := []struct {
		class Class
		n     int64
		want  string
	}{
		{Measurements, 1, "MP00001"},
		{Measurements, 99999, "MP99999"},
		{ShutterPapers, 7, "S0007"},
		{FramePapers, 42, "F0042"},
		{OtherPapers, 9999, "P9999"},
		{Dispatches, 12, "DSP-0012"},
		{GatePasses, 1, "GP-0001"},
		{QualityChecks, 3, "QC003"},
		{ReworkOrders, 999, "RW999"},
		{QCCertificates, 15, "QCCERT015"},
		{UserSerial("A"), 6, "A00006"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.class.Format(tt.n))
	}
}

func TestClassFormatMatchesOwnPattern(t *testing.T) {
	classes := []Class{
		Measurements, ShutterPapers, FramePapers, OtherPapers,
		Dispatches, GatePasses, QualityChecks, ReworkOrders,
		QCCertificates, UserSerial("Z"),
	}

	for _, class := range classes {
		re := regexp.MustCompile(fmt.Sprintf(`^%s\d{%d}$`, regexp.QuoteMeta(class.Prefix), class.Width))
		for _, n := range []int64{1, 5, class.Ceiling} {
			number := class.Format(n)
			assert.Regexp(t, re, number, "class %s", class.Name)

			parsed, ok := class.Parse(number)
			require.True(t, ok, "class %s should parse %s", class.Name, number)
			assert.Equal(t, n, parsed)
		}
	}
}

func TestClassParseRejectsForeignNumbers(t *testing.T) {
	_, ok := Measurements.Parse("S0001")
	assert.False(t, ok)

	_, ok = Measurements.Parse("MP12a")
	assert.False(t, ok)

	_, ok = Measurements.Parse("XMP00001")
	assert.False(t, ok)

	// "DSP-" must not be treated as a regexp metacharacter sequence.
	_, ok = Dispatches.Parse("DSPX0001")
	assert.False(t, ok)

	n, ok := Dispatches.Parse("DSP-0001")
	require.True(t, ok)
	assert.Equal(t, int64(1), n)
}

func TestClassNextWrapsAtCeiling(t *testing.T) {
	assert.Equal(t, int64(2), Measurements.Next(1))
	assert.Equal(t, int64(1), Measurements.Next(99999))
	assert.Equal(t, int64(1), ShutterPapers.Next(9999))
	assert.Equal(t, int64(1), QualityChecks.Next(999))

	// Wrap target is 1, never 0.
	number, n := ShutterPapers.NextAfter(9999)
	assert.Equal(t, "S0001", number)
	assert.Equal(t, int64(1), n)
}

func TestClassMaxOf(t *testing.T) {
	// Gaps are never back-filled: max+1 even when MP00002 is free.
	max := Measurements.MaxOf([]string{"MP00001", "MP00003", "S0009", "junk"})
	assert.Equal(t, int64(3), max)

	number, _ := Measurements.NextAfter(max)
	assert.Equal(t, "MP00004", number)

	assert.Equal(t, int64(0), Measurements.MaxOf(nil))
	assert.Equal(t, int64(0), Measurements.MaxOf([]string{"S0001", "F0002"}))
}

func TestNextScopedSerial(t *testing.T) {
	class := UserSerial("A")

	serial, counter := class.NextScopedSerial(0)
	assert.Equal(t, "A00001", serial)
	assert.Equal(t, int64(1), counter)

	serial, counter = class.NextScopedSerial(5)
	assert.Equal(t, "A00006", serial)
	assert.Equal(t, int64(6), counter)

	// Wrap at the serial ceiling.
	serial, counter = class.NextScopedSerial(99999)
	assert.Equal(t, "A00001", serial)
	assert.Equal(t, int64(1), counter)
}

func TestPaperClassFor(t *testing.T) {
	assert.Equal(t, "S", PaperClassFor("Shutter").Prefix)
	assert.Equal(t, "F", PaperClassFor("Frame").Prefix)
	assert.Equal(t, "P", PaperClassFor("Door").Prefix)
	assert.Equal(t, "P", PaperClassFor("").Prefix)
}

func TestClassValidate(t *testing.T) {
	assert.NoError(t, Measurements.Validate())

	err := Class{Width: 5, Ceiling: 99999}.Validate()
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))

	err = Class{Prefix: "A", Ceiling: 10}.Validate()
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
}
