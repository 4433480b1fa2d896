package spec

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilders_Validate(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/app.conf", []byte("x"), 0644))
	require.NoError(t, fs.MkdirAll("/var/data", 0755))

	tests := []struct {
		name  string
		field Field
		raw   string
		valid bool
	}{
		{"str plain", Str(), "hello", true},
		{"str empty", Str(), "", true},
		{"str min length", Str(StrConfig{MinLength: 3}), "ab", false},
		{"str max length runes", Str(StrConfig{MaxLength: 2}), "éé", true},
		{"str pattern match", Str(StrConfig{Pattern: regexp.MustCompile(`^v\d+$`)}), "v12", true},
		{"str pattern miss", Str(StrConfig{Pattern: regexp.MustCompile(`^v\d+$`)}), "x12", false},

		{"num integer", Num(), "42", true},
		{"num float trimmed", Num(), " 3.5 ", true},
		{"num empty", Num(), "", false},
		{"num nan", Num(), "NaN", false},
		{"num inf", Num(), "Inf", false},
		{"num below min", Num(NumConfig{Min: Ptr(1.0)}), "0", false},
		{"num above max", Num(NumConfig{Max: Ptr(10.0)}), "11", false},
		{"num integer flag", Num(NumConfig{Integer: true}), "1.5", false},

		{"bool true", Bool(), "true", true},
		{"bool y", Bool(), "y", true},
		{"bool zero", Bool(), "0", true},
		{"bool uppercase", Bool(), "TRUE", false},
		{"bool garbage", Bool(), "maybe", false},

		{"port zero", Port(), "0", true},
		{"port max", Port(), "65535", true},
		{"port whole float", Port(), "8080.0", true},
		{"port too big", Port(), "70000", false},
		{"port negative", Port(), "-1", false},
		{"port fraction", Port(), "80.5", false},

		{"url https", URL(), "https://example.com/path", true},
		{"url no scheme", URL(), "example.com", false},
		{"url scheme without host", URL(), "http://", false},
		{"url protocol allowed", URL(URLConfig{Protocols: []string{"https"}}), "https://a.io", true},
		{"url protocol rejected", URL(URLConfig{Protocols: []string{"https"}}), "http://a.io", false},

		{"email ok", Email(), "dev@example.com", true},
		{"email no tld", Email(), "dev@example", false},
		{"email spaces", Email(), "a b@example.com", false},

		{"json object", JSON[map[string]any](), `{"a":1}`, true},
		{"json broken", JSON[map[string]any](), `{"a":`, false},
		{"json schema rejects", JSON(JSONConfig[map[string]any]{
			Schema: func(m map[string]any) bool { _, ok := m["name"]; return ok },
		}), `{"a":1}`, false},

		{"date iso", Date(), "2024-03-01", true},
		{"date rfc3339", Date(), "2024-03-01T10:00:00Z", true},
		{"date garbage", Date(), "yesterday", false},
		{"date not on calendar", Date(), "2024-02-30", false},
		{"date leap day", Date(), "2024-02-29", true},
		{"date leap day in common year", Date(), "2023-02-29", false},
		{"date before min", Date(DateConfig{Min: Ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}), "2023-12-31", false},
		{"date on max", Date(DateConfig{Max: Ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}), "2024-01-01", true},

		{"array plain", Array(), "a,b,c", true},
		{"array empty", Array(), "", true},
		{"array item validator", Array(ArrayConfig[string]{ItemValidator: func(s string) bool { return len(s) == 1 }}), "a,bb", false},

		{"path no existence check", FilePath(FilePathConfig{Fs: fs}), "does/not/exist", true},
		{"path file exists", FilePath(FilePathConfig{Fs: fs, MustExist: true}), "/etc/app.conf", true},
		{"path missing", FilePath(FilePathConfig{Fs: fs, MustExist: true}), "/etc/nope", false},
		{"path dir rejected", FilePath(FilePathConfig{Fs: fs, MustExist: true}), "/var/data", false},
		{"path dir allowed", FilePath(FilePathConfig{Fs: fs, MustExist: true, CanBeDir: true}), "/var/data", true},

		{"host localhost", Host(), "localhost", true},
		{"host dotted", Host(), "db.internal.example", true},
		{"host leading hyphen", Host(), "-bad.example", false},
		{"host underscore", Host(), "bad_host", false},
		{"host label at limit", Host(), strings.Repeat("a", 63) + ".example", true},
		{"host label too long", Host(), strings.Repeat("a", 64) + ".example", false},

		{"uuid ok", UUID(), "6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"uuid garbage", UUID(), "not-a-uuid", false},

		{"duration ok", Duration(), "1m30s", true},
		{"duration no unit", Duration(), "30", false},
		{"duration above max", Duration(DurationConfig{Max: Ptr(time.Minute)}), "2m", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.field.Validate(tt.raw))
		})
	}
}

// Every value a field accepts must also parse.
func TestBuilders_ValidImpliesParse(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		raws  []string
	}{
		{"num", Num(), []string{"0", "-1.25", " 7 "}},
		{"port", Port(), []string{"0", "443", "3000.0"}},
		{"bool", Bool(), []string{"true", "false", "1", "0", "yes", "no", "y", "n"}},
		{"json", JSON[any](), []string{`[]`, `{"k":"v"}`, `3`, `"s"`}},
		{"date", Date(), []string{"2024-02-29", "2024-02-29T12:00:00+02:00"}},
		{"array", Array(), []string{"", "a", " a , , b "}},
		{"uuid", UUID(), []string{"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}},
		{"duration", Duration(), []string{"1h", "250ms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, raw := range tt.raws {
				require.True(t, tt.field.Validate(raw), raw)
				_, err := tt.field.Parse(raw)
				assert.NoError(t, err, raw)
			}
		})
	}
}

func TestBuilders_Parse(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		v, err := Num().ParseValue(" 2.5 ")
		require.NoError(t, err)
		assert.Equal(t, 2.5, v)
	})

	t.Run("port", func(t *testing.T) {
		v, err := Port().ParseValue("8080")
		require.NoError(t, err)
		assert.Equal(t, 8080, v)
	})

	t.Run("bool", func(t *testing.T) {
		v, err := Bool().ParseValue("yes")
		require.NoError(t, err)
		assert.True(t, v)

		v, err = Bool().ParseValue("n")
		require.NoError(t, err)
		assert.False(t, v)
	})

	t.Run("array trims and drops empties", func(t *testing.T) {
		v, err := Array().ParseValue(" a , ,b,")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v)
	})

	t.Run("array custom separator", func(t *testing.T) {
		v, err := Array(ArrayConfig[string]{Separator: ";"}).ParseValue("x;y")
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, v)
	})

	t.Run("typed array", func(t *testing.T) {
		ports := ArrayOf(Port().ParseValue)
		assert.False(t, ports.Validate("80,http"))

		v, err := ports.ParseValue("80, 443")
		require.NoError(t, err)
		assert.Equal(t, []int{80, 443}, v)
	})

	t.Run("json into struct", func(t *testing.T) {
		type feature struct {
			Name    string `json:"name"`
			Enabled bool   `json:"enabled"`
		}
		v, err := JSON[feature]().ParseValue(`{"name":"beta","enabled":true}`)
		require.NoError(t, err)
		assert.Equal(t, feature{Name: "beta", Enabled: true}, v)
	})

	t.Run("date is utc", func(t *testing.T) {
		v, err := Date().ParseValue("2024-03-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), v)
	})

	t.Run("file path is absolute", func(t *testing.T) {
		v, err := FilePath().ParseValue("config/app.yaml")
		require.NoError(t, err)
		assert.True(t, len(v) > 0 && v[0] == '/')
	})

	t.Run("uuid", func(t *testing.T) {
		v, err := UUID().ParseValue("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
		require.NoError(t, err)
		assert.Equal(t, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), v)
	})
}

func TestSpec_Metadata(t *testing.T) {
	t.Run("required unless optional", func(t *testing.T) {
		assert.True(t, Str().Required())
		assert.False(t, Str(StrConfig{Optional: true}).Required())
	})

	t.Run("default messages", func(t *testing.T) {
		assert.Equal(t, "Expected a valid port number (0-65535)", Port().Message())
		assert.Equal(t, "Expected a boolean (true/false, 1/0, yes/no, y/n)", Bool().Message())
		assert.Equal(t, "Expected a comma-separated list", Array().Message())
		assert.Equal(t, "Expected a valid JSON string", JSON[any]().Message())
		assert.Equal(t, "Expected a valid date string", Date().Message())
		assert.Equal(t, "Expected a valid file path that exists and is not a directory",
			FilePath(FilePathConfig{MustExist: true}).Message())
		assert.Equal(t, "Expected a valid URL with protocol http or https",
			URL(URLConfig{Protocols: []string{"http", "https"}}).Message())
	})

	t.Run("custom message wins", func(t *testing.T) {
		assert.Equal(t, "need a port", Port(PortConfig{Message: "need a port"}).Message())
	})

	t.Run("default text", func(t *testing.T) {
		assert.Equal(t, "3000", Port(PortConfig{Default: Ptr(3000)}).DefaultText())
		assert.Equal(t, "1.5", Num(NumConfig{Default: Ptr(1.5)}).DefaultText())
		assert.Equal(t, "true", Bool(BoolConfig{Default: Ptr(true)}).DefaultText())
		assert.Equal(t, "a,b", Array(ArrayConfig[string]{Default: &[]string{"a", "b"}}).DefaultText())
		assert.Equal(t, "", Str().DefaultText())
	})

	t.Run("default value is erased", func(t *testing.T) {
		s := Num(NumConfig{Default: Ptr(2.0)})
		assert.True(t, s.HasDefault())
		assert.Equal(t, 2.0, s.DefaultValue())
		assert.Nil(t, Num().DefaultValue())
	})

	t.Run("config default is copied", func(t *testing.T) {
		def := "a"
		s := Str(StrConfig{Default: &def})
		def = "b"
		v, ok := s.Default()
		assert.True(t, ok)
		assert.Equal(t, "a", v)
	})
}

func TestSpec_Choices(t *testing.T) {
	s := Str(StrConfig{Choices: []string{"dev", "prod"}})

	assert.Equal(t, []string{"dev", "prod"}, s.ChoiceTexts())
	assert.True(t, s.Allows("dev"))
	assert.False(t, s.Allows("staging"))
	assert.False(t, s.Allows(42))

	assert.True(t, Str().Allows("anything"))
	assert.Nil(t, Str().ChoiceTexts())

	n := Num(NumConfig{Choices: []float64{1, 2}})
	assert.Equal(t, []string{"1", "2"}, n.ChoiceTexts())
	assert.True(t, n.Allows(2.0))
}

func TestSpec_WithDefaultText(t *testing.T) {
	s, err := Port().WithDefaultText("8080")
	require.NoError(t, err)
	v, ok := s.Default()
	assert.True(t, ok)
	assert.Equal(t, 8080, v)

	_, err = Port().WithDefaultText("http")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected a valid port number")
}

func TestSpec_WithChoiceTexts(t *testing.T) {
	s, err := Bool().WithChoiceTexts("true")
	require.NoError(t, err)
	assert.True(t, s.Allows(true))
	assert.False(t, s.Allows(false))

	_, err = Bool().WithChoiceTexts("sometimes")
	assert.Error(t, err)
}

func TestSchema_Keys(t *testing.T) {
	s := Schema{
		"PORT":     Port(),
		"API_URL":  URL(),
		"NODE_ENV": Str(),
	}
	assert.Equal(t, []string{"API_URL", "NODE_ENV", "PORT"}, s.Keys())
	assert.Empty(t, Schema{}.Keys())
}
