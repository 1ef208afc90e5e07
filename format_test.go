package xconsole_test

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/dianlight/xconsole"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gitlab.com/tozd/go/errors"
)

func TestFormatPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		mode xconsole.PathMode
		root string
		want string
	}{
		{"full", "/srv/app/cmd/main.go", xconsole.PathFull, "/srv/app", "/srv/app/cmd/main.go"},
		{"filename", "/srv/app/cmd/main.go", xconsole.PathFilename, "", "main.go"},
		{"windows filename", `C:\app\src\main.go`, xconsole.PathFilename, "", "main.go"},
		{"relative", "/srv/app/cmd/main.go", xconsole.PathRelative, "/srv/app", "cmd/main.go"},
		{"relative trailing slash", "/srv/app/cmd/main.go", xconsole.PathRelative, "/srv/app/", "cmd/main.go"},
		{"relative outside root", "/opt/lib/x.go", xconsole.PathRelative, "/srv/app", "../../opt/lib/x.go"},
		{"relative without root", "/srv/app/cmd/main.go", xconsole.PathRelative, "", "/srv/app/cmd/main.go"},
		{"relative windows", `C:\app\src\main.go`, xconsole.PathRelative, `C:\app`, `src\main.go`},
		{"empty mode", "/srv/app/main.go", "", "", "/srv/app/main.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, xconsole.FormatPath(tt.path, tt.mode, tt.root))
		})
	}
}

func TestFormatPathFilenameHasNoSeparator(t *testing.T) {
	for _, path := range []string{"/a/b/c.go", `D:\x\y.go`, "plain.go", "/srv/app/", "a/b\\c.go"} {
		got := xconsole.FormatPath(path, xconsole.PathFilename, "")
		assert.NotContains(t, got, "/", path)
		assert.NotContains(t, got, `\`, path)
		assert.True(t, strings.HasSuffix(strings.TrimRight(path, `/\`), got), path)
	}
}

func TestLevelGate(t *testing.T) {
	tests := []struct {
		level int
		info  bool
		warn  bool
		err   bool
	}{
		{-1, false, false, false},
		{0, false, false, false},
		{1, false, false, true},
		{2, false, true, true},
		{3, true, true, true},
		{7, true, true, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.level), func(t *testing.T) {
			gate := xconsole.LevelGate(tt.level)
			assert.Equal(t, tt.info, gate.Enabled(xconsole.SeverityInfo))
			assert.Equal(t, tt.warn, gate.Enabled(xconsole.SeverityWarn))
			assert.Equal(t, tt.err, gate.Enabled(xconsole.SeverityError))
			assert.False(t, gate.Enabled(xconsole.Severity(9)))
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  xconsole.LevelGate
	}{
		{"silent", 0},
		{"NONE", 0},
		{"error", 1},
		{" Warn ", 2},
		{"warning", 2},
		{"info", 3},
		{"all", 3},
		{"2", 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := xconsole.ParseLevel(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := xconsole.ParseLevel("")
	assert.EqualError(t, err, "log level cannot be empty")
	_, err = xconsole.ParseLevel("9")
	assert.Error(t, err)
	_, err = xconsole.ParseLevel("verbose")
	assert.ErrorContains(t, err, "invalid log level 'verbose': supported levels are")
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, "INFO", xconsole.SeverityInfo.String())
	assert.Equal(t, "ERROR", xconsole.SeverityError.String())
	assert.Equal(t, 1, xconsole.SeverityError.RequiredLevel())
	assert.Equal(t, 3, xconsole.SeverityInfo.RequiredLevel())
	assert.Equal(t, "FgYellow", xconsole.SeverityWarn.ColorToken())
}

type namedError struct{}

func (namedError) Error() string { return "quota exceeded" }
func (namedError) Name() string  { return "QuotaError" }

type ValidationError struct{ Field string }

func (e *ValidationError) Error() string { return "invalid " + e.Field }

type nilNamedError struct{ name string }

func (e *nilNamedError) Error() string { return "unnamed" }
func (e *nilNamedError) Name() string  { return e.name }

type DescribeSuite struct {
	suite.Suite
	describer *xconsole.ErrorDescriber
}

func (suite *DescribeSuite) SetupTest() {
	cfg := testConfig()
	suite.describer = xconsole.NewErrorDescriber(cfg)
}

func (suite *DescribeSuite) TestPlainError() {
	suite.Equal("(Error) boom", suite.describer.Describe(fmt.Errorf("boom")))
}

func (suite *DescribeSuite) TestOriginFromStack() {
	line := callerLine()
	err := errors.New("boom")

	suite.Equal(fmt.Sprintf("(Error) boom (format_test.go:(*DescribeSuite).TestOriginFromStack:%d)", line), suite.describer.Describe(err))

	site, ok := suite.describer.Origin(err)
	suite.Require().True(ok)
	suite.Equal(line, site.Line)
	suite.True(strings.HasSuffix(site.File, "format_test.go"))
}

func (suite *DescribeSuite) TestDeepestStackWins() {
	line := callerLine()
	inner := errors.New("inner")
	outer := errors.Wrap(inner, "outer")

	described := suite.describer.Describe(outer)
	suite.True(strings.HasPrefix(described, "(Error) outer"), described)
	suite.True(strings.HasSuffix(described, fmt.Sprintf(" (format_test.go:(*DescribeSuite).TestDeepestStackWins:%d)", line)), described)
}

func (suite *DescribeSuite) TestWrappedWithFmt() {
	line := callerLine()
	err := fmt.Errorf("request: %w", errors.New("refused"))

	suite.Equal(fmt.Sprintf("(Error) request: refused (format_test.go:(*DescribeSuite).TestWrappedWithFmt:%d)", line), suite.describer.Describe(err))
}

func (suite *DescribeSuite) TestFirstLineOnly() {
	err := fmt.Errorf("Cannot find module 'x'\nRequire stack:\n- /srv/app/main.go")
	suite.Equal("(Error) Cannot find module 'x'", suite.describer.Describe(err))
}

func (suite *DescribeSuite) TestErrorNames() {
	suite.Equal("(QuotaError) quota exceeded", suite.describer.Describe(namedError{}))
	suite.Equal("(ValidationError) invalid email", suite.describer.Describe(&ValidationError{Field: "email"}))

	_, err := os.Open("/definitely/not/here")
	suite.Equal("(PathError) open /definitely/not/here: no such file or directory", suite.describer.Describe(err))

	var pathErr *fs.PathError
	suite.Require().ErrorAs(err, &pathErr)
	suite.Equal("PathError", xconsole.ErrorName(pathErr))
	suite.Equal("Error", xconsole.ErrorName(errors.New("x")))
}

func (suite *DescribeSuite) TestNilAndPanickingErrors() {
	suite.Equal("<nil>", suite.describer.Describe(nil))

	var typedNil *ValidationError
	suite.NotPanics(func() {
		suite.True(strings.HasPrefix(suite.describer.Describe(typedNil), "(ValidationError) "))
	})

	var namedNil *nilNamedError
	suite.NotPanics(func() {
		suite.Equal("(nilNamedError) unnamed", suite.describer.Describe(namedNil))
		suite.Equal("nilNamedError", xconsole.ErrorName(namedNil))
	})
}

func (suite *DescribeSuite) TestDependencyFramesAreSkipped() {
	d := *suite.describer
	d.Resolver.DependencyMarkers = []string{"format_test.go"}

	// the test file itself now counts as a dependency, so the origin moves
	// to the first frame of the test runner
	site, ok := d.Origin(errors.New("boom"))
	suite.Require().True(ok)
	suite.NotContains(site.File, "format_test.go")

	d.Resolver.ExcludeDependencies = false
	site, ok = d.Origin(errors.New("boom"))
	suite.Require().True(ok)
	suite.Equal("format_test.go", site.Path)
}

func (suite *DescribeSuite) TestRawStack() {
	suite.Equal("flat", xconsole.RawStack(fmt.Errorf("flat")))

	raw := xconsole.RawStack(errors.New("deep"))
	suite.True(strings.HasPrefix(raw, "deep"))
	suite.Contains(raw, "format_test.go")
}

func (suite *DescribeSuite) TestDescribeErrorDefaults() {
	described := xconsole.DescribeError(errors.New("boom"))
	suite.True(strings.HasPrefix(described, "(Error) boom ("))
	suite.Contains(described, "/format_test.go:(*DescribeSuite).TestDescribeErrorDefaults:")
}

func TestDescribeSuite(t *testing.T) {
	suite.Run(t, new(DescribeSuite))
}
