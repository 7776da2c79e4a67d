package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppItemRowTypes(t *testing.T) {
	for _, section := range AppSections() {
		for _, item := range section.Items {
			route, ok := item.Route()
			switch item {
			case AppItemContactUs, AppItemRateApp:
				assert.Equal(t, RowTypeAction, item.RowType(), item)
				assert.False(t, ok)
				assert.Empty(t, route)
			default:
				assert.Equal(t, RowTypeNavigation, item.RowType(), item)
				assert.True(t, ok)
			}
			assert.NotEmpty(t, item.Title(), item)
		}
	}
}

func TestAppSectionsLayout(t *testing.T) {
	sections := AppSections()
	require.Len(t, sections, 3)
	assert.Equal(t, "Account", sections[0].Type.Title())
	assert.Equal(t, "Information", sections[1].Type.Title())
	assert.Equal(t, "Support", sections[2].Type.Title())
	assert.Equal(t, AppItemRateApp, sections[2].Items[3])
}

func TestParseAppItem(t *testing.T) {
	item, err := ParseAppItem("diagnostics_page")
	require.NoError(t, err)
	assert.Equal(t, AppItemDiagnosticsPage, item)

	_, err = ParseAppItem("step_goal")
	assert.Error(t, err)
}
