package layout

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		checkLayout func(t *testing.T, config *LayoutConfig)
	}{
		{
			name: "toast with normal and info variants",
			input: `<frame>
				<toast name="OuterToast">
					<normal name="NormalToast">
						<title name="ToastTitle" />
						<text name="ToastText" max-lines="2" />
					</normal>
					<info name="InfoToast" />
				</toast>
			</frame>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				require.Len(t, config.Elements, 1)
				toast := config.Elements[0]
				assert.Equal(t, ElementTypeToast, toast.Type)
				assert.Equal(t, "OuterToast", toast.Name)

				require.Len(t, toast.Children, 2)
				normal := toast.Children[0]
				require.Len(t, normal.Children, 2)
				assert.Equal(t, ElementTypeTitle, normal.Children[0].Type)
				assert.Equal(t, "2", normal.Children[1].Attributes["max-lines"])
				assert.NotContains(t, normal.Children[1].Attributes, "name")
				assert.Equal(t, PositionBottom, config.Position)
			},
		},
		{
			name:  "frame sizing and position",
			input: `<frame min-width="20c" max-width="40" position="Top"></frame>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				assert.Equal(t, 20, config.MinWidth)
				assert.Equal(t, 40, config.MaxWidth)
				assert.Equal(t, PositionTop, config.Position)
				assert.Empty(t, config.Elements)
			},
		},
		{
			name:    "unknown element",
			input:   `<frame><popup /></frame>`,
			wantErr: true,
		},
		{
			name:    "wrong root",
			input:   `<popup></popup>`,
			wantErr: true,
		},
		{
			name:    "no root",
			input:   `<!-- nothing here -->`,
			wantErr: true,
		},
		{
			name:    "bad position",
			input:   `<frame position="left" />`,
			wantErr: true,
		},
		{
			name: "duplicate names",
			input: `<frame>
				<toast name="OuterToast"><text name="X" /><text name="X" /></toast>
			</frame>`,
			wantErr: true,
		},
		{
			name:    "storyboard name clashes with part",
			input:   `<frame><toast name="OuterToast" storyboard="OuterToast" /></frame>`,
			wantErr: true,
		},
		{
			name:    "min width above max width",
			input:   `<frame min-width="50" max-width="10" />`,
			wantErr: true,
		},
		{
			name:    "malformed xml",
			input:   `<frame><toast></frame>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseTemplateString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, config)
			if tt.checkLayout != nil {
				tt.checkLayout(t, config)
			}
		})
	}
}

func TestElementAttributes(t *testing.T) {
	elem := LayoutElement{Attributes: map[string]string{
		"draggable":     "true",
		"broken":        "maybe",
		"max-lines":     "3",
		"hide-duration": "150ms",
		"bad-duration":  "soon",
	}}

	assert.True(t, elem.Bool("draggable", false))
	assert.True(t, elem.Bool("broken", true))
	assert.False(t, elem.Bool("missing", false))
	assert.Equal(t, 3, elem.Int("max-lines", 1))
	assert.Equal(t, 1, elem.Int("missing", 1))
	assert.Equal(t, 150*time.Millisecond, elem.Duration("hide-duration", time.Second))
	assert.Equal(t, time.Second, elem.Duration("bad-duration", time.Second))
}

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()
	require.NotNil(t, layout)

	assert.Equal(t, []string{
		"StatusBar",
		"OuterToast",
		"NormalToast",
		"ToastTitle",
		"ToastText",
		"InfoToast",
		"InfoToastText",
	}, layout.Names())

	toast, ok := layout.Find("OuterToast")
	require.True(t, ok)
	assert.True(t, toast.Bool("draggable", false))
	assert.Equal(t, "DraggingToHiddenStoryboard", toast.Attributes["storyboard"])

	text, ok := layout.Find("ToastText")
	require.True(t, ok)
	assert.Equal(t, 3, text.Int("max-lines", 1))

	_, ok = layout.Find("Missing")
	assert.False(t, ok)
}

func TestGetEmbeddedTemplate(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		wantFound bool
	}{
		{"default", "default", true},
		{"compact", "compact", true},
		{"static", "static", true},
		{"nonexistent", "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, found := GetEmbeddedTemplate(tt.template)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.NotNil(t, config)
				_, ok := config.Find("OuterToast")
				assert.True(t, ok, "every template declares a toast")
			}
		})
	}
}

func TestStaticTemplateHasNoStatusBar(t *testing.T) {
	config, ok := GetEmbeddedTemplate("static")
	require.True(t, ok)
	_, ok = config.Find("StatusBar")
	assert.False(t, ok)

	toast, _ := config.Find("OuterToast")
	assert.False(t, toast.Bool("draggable", true))
}

func TestListEmbeddedTemplates(t *testing.T) {
	templates := ListEmbeddedTemplates()
	assert.ElementsMatch(t, []string{"default", "compact", "static"}, templates)
}

func TestLoader(t *testing.T) {
	loader := NewLoader("")

	config, err := loader.Load("default")
	require.NoError(t, err)
	assert.NotNil(t, config)

	_, err = loader.Load("unknown")
	assert.Error(t, err)

	config, err = loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), config)
}

func TestLoader_UserDirectoryOverrides(t *testing.T) {
	dir := t.TempDir()
	custom := `<frame position="top"><toast name="OuterToast" /></frame>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.xml"), []byte(custom), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.xml"), []byte(custom), 0o644))

	loader := NewLoader(dir)

	config, err := loader.Load("default")
	require.NoError(t, err)
	assert.Equal(t, PositionTop, config.Position)

	config, err = loader.Load("compact")
	require.NoError(t, err, "embedded templates are still reachable")
	assert.Equal(t, PositionBottom, config.Position)

	assert.Equal(t, []string{"default", "mine", "compact", "static"}, loader.List())
}

func TestLoader_InvalidUserTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.xml"), []byte(`<frame><nope/></frame>`), 0o644))

	_, err := NewLoader(dir).Load("bad")
	assert.Error(t, err)
}
