package util

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrganizationCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ac", "AC", true},
		{"ACME", "ACME", true},
		{"ABCDEFGHIJ", "ABCDEFGHIJ", true},
		{"org42", "ORG42", true},
		{"A", "", false},
		{"ABCDEFGHIJK", "", false},
		{"ACME-1", "", false},
		{"AC ME", "", false},
		{"ACMÉ", "", false},
		{"", "", false},
		{"   ", "", false},
		{"  widge ", "", false},
		{"ACME01\n", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeOrganizationCode(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got)
			continue
		}
		require.Error(t, err, tc.in)
		assert.True(t, IsKind(err, KindValidation), tc.in)
	}
}

func TestNormalizeOrganizationCodeMatchesPatternAfterUppercasing(t *testing.T) {
	canonical := regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
	alphabet := "abcXYZ019-_ .!"
	for n := 0; n <= 12; n++ {
		for _, ch := range alphabet {
			raw := strings.Repeat(string(ch), n)
			got, err := NormalizeOrganizationCode(raw)
			expected := strings.ToUpper(raw)
			if canonical.MatchString(expected) {
				require.NoError(t, err, raw)
				assert.Equal(t, expected, got)
			} else {
				assert.Error(t, err, raw)
			}
		}
	}
}

func TestExtractOrganizationCodePrecedence(t *testing.T) {
	code, err := ExtractOrganizationCode("acme", "WIDGE", "OTHER")
	require.NoError(t, err)
	assert.Equal(t, "ACME", code)

	code, err = ExtractOrganizationCode("", "widge", "OTHER")
	require.NoError(t, err)
	assert.Equal(t, "WIDGE", code)

	code, err = ExtractOrganizationCode("", "", "other")
	require.NoError(t, err)
	assert.Equal(t, "OTHER", code)
}

func TestExtractOrganizationCodeRejectsPadding(t *testing.T) {
	_, err := ExtractOrganizationCode(" acme01 ", "", "")
	assert.True(t, IsKind(err, KindValidation))

	_, err = ExtractOrganizationCode(" ", "", "OTHER")
	assert.True(t, IsKind(err, KindValidation))
}

func TestExtractOrganizationCodeDoesNotFallThroughOnInvalid(t *testing.T) {
	_, err := ExtractOrganizationCode("ACME-1", "WIDGE", "")
	require.Error(t, err)
	assert.Equal(t, 400, StatusFor(err))
}

func TestExtractOrganizationCodeMissing(t *testing.T) {
	_, err := ExtractOrganizationCode("", "", "")
	require.Error(t, err)
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, ORGANIZATION_CODE_REQUIRED, appErr.Message)
}
