package ocrtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanLinesBracketed(t *testing.T) {
	in := "['Patient', 'Name']"
	got := CleanLines(in)
	assert.NotContains(t, got, "'")
	assert.NotContains(t, got, ",")
	assert.True(t, strings.HasPrefix(got, "["))
	assert.True(t, strings.HasSuffix(got, "]"))
}

func TestCleanLinesPlain(t *testing.T) {
	got := CleanLines("a, b's c")
	assert.Equal(t, "a  bs c", got)
}

func TestRewriteCheckboxesYesNo(t *testing.T) {
	got := RewriteCheckboxes("[single Yes married No]")
	// first matching field rewrites, then returns
	assert.Contains(t, got, "single: true")
	assert.Contains(t, got, "married No")
}

func TestRewriteCheckboxesCaseInsensitive(t *testing.T) {
	got := RewriteCheckboxes("outpatient: YES")
	assert.Contains(t, got, "outpatient: true")
}

func TestRewriteCheckboxesParens(t *testing.T) {
	got := RewriteCheckboxes("married ( )")
	assert.Contains(t, got, "false")
	assert.NotContains(t, got, "( )")

	got = RewriteCheckboxes("married (x)")
	assert.Contains(t, got, "true")
}

func TestRewriteCheckboxesParensLongContentKept(t *testing.T) {
	got := RewriteCheckboxes("married (see notes)")
	assert.Contains(t, got, "(see notes)")
}

func TestRewriteCheckboxesParensNonCheckboxKept(t *testing.T) {
	got := RewriteCheckboxes("total (x) amount")
	assert.Equal(t, "total (x) amount", got)
}

func TestFormatKeyValuesColonInsertion(t *testing.T) {
	got := FormatKeyValues("[Name John Smith]")
	assert.Contains(t, got, "Name: John")
}

func TestFormatKeyValuesExistingColonUntouched(t *testing.T) {
	got := FormatKeyValues("[Name: John]")
	assert.Equal(t, "[Name: John]", got)
}

func TestFormatKeyValuesPharmacy(t *testing.T) {
	got := FormatKeyValues("[PHARMACY-123]")
	assert.Contains(t, got, "PHARMACY:123")
}

func TestFormatKeyValuesAmpersandSplit(t *testing.T) {
	got := FormatKeyValues("[Name: A & ID: B]")
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 2)
}

func TestFormatKeyValuesLowercaseBooleans(t *testing.T) {
	got := FormatKeyValues("[single: True]")
	assert.Contains(t, got, "true")
	assert.NotContains(t, got, "True")
}

func TestFormatKeyValuesPlainLineUntouched(t *testing.T) {
	got := FormatKeyValues("Name John outside brackets")
	assert.Equal(t, "Name John outside brackets", got)
}

func TestNormalizeEndToEnd(t *testing.T) {
	in := "['single' Yes, 'married' No]\n[Name 'John Smith']"
	got := Normalize(in)
	assert.Contains(t, got, "single: true")
	assert.Contains(t, got, "Name: John")
	assert.NotContains(t, got, "'")
}
