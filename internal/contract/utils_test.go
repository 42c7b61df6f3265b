package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/coverdelta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    schema.CoverageStatus
		expected string
	}{
		{name: "good", input: schema.GoodStatus, expected: GoodValue},
		{name: "warning", input: schema.WarningStatus, expected: WarningValue},
		{name: "poor", input: schema.PoorStatus, expected: PoorValue},
		{name: "unknown falls back to poor", input: schema.CoverageStatus("other"), expected: PoorValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	original := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = original }()

	label := GetColorLabel(schema.GoodStatus)
	assert.Contains(t, label, GoodValue)
	assert.NotEqual(t, GoodValue, label, "colored label should carry escape codes")

	assert.Contains(t, GetColorLabel(schema.WarningStatus), WarningValue)
	assert.Contains(t, GetColorLabel(schema.PoorStatus), PoorValue)
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		excludes []string
		expected bool
	}{
		{"no excludes", "src/a.ts", nil, false},
		{"blank pattern", "src/a.ts", []string{"  "}, false},
		{"prefix pattern", "vendor/lib/a.go", []string{"vendor/"}, true},
		{"prefix pattern miss", "src/vendor.go", []string{"vendor/"}, false},
		{"extension pattern", "src/a.test.ts", []string{".test.ts"}, true},
		{"substring pattern", "src/generated/a.ts", []string{"generated"}, true},
		{"base name glob", "src/deep/a.spec.ts", []string{"*.spec.ts"}, true},
		{"double star glob", "src/__mocks__/deep/a.ts", []string{"**/__mocks__/**"}, true},
		{"single star does not cross dirs", "src/deep/a.ts", []string{"src/*.ts"}, false},
		{"brace glob", "src/b.ts", []string{"src/{a,b}.ts"}, true},
		{"glob miss", "src/c.ts", []string{"src/{a,b}.ts"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldIgnore(tt.path, tt.excludes))
		})
	}
}

func TestValidateExcludes(t *testing.T) {
	require.NoError(t, ValidateExcludes([]string{"vendor/", "**/*.ts", ".json"}))
	require.Error(t, ValidateExcludes([]string{"src/[a.ts"}))
}

func TestSelectOutputFile(t *testing.T) {
	file, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, file)

	path := filepath.Join(t.TempDir(), "out.txt")
	file, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()
	assert.Equal(t, path, file.Name())

	_, err = SelectOutputFile(filepath.Join(t.TempDir(), "missing", "out.txt"))
	assert.Error(t, err)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "src/a.ts", TruncatePath("src/a.ts", 20))
	assert.Equal(t, "...nent.tsx", TruncatePath("src/components/component.tsx", 11))
	assert.Equal(t, "src/a.ts", TruncatePath("src/a.ts", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b/c"}, SplitList(" a, ,b/c ,"))
	assert.Nil(t, SplitList(""))
}
