package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rpupo63/portfolio-backend/database/testdb"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsMerger_GetOrCreateIsLazyAndStable(t *testing.T) {
	db := testdb.New(t)
	merger := NewSettingsMerger(db)
	ctx := context.Background()

	first, err := merger.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", first.SiteName)
	assert.Equal(t, models.ThemeModeDark, first.Theme.Data().DefaultMode)

	second, err := merger.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSettingsMerger_PatchKeepsSiblingLeaves(t *testing.T) {
	db := testdb.New(t)
	merger := NewSettingsMerger(db)
	ctx := context.Background()

	before, err := merger.GetOrCreate(ctx)
	require.NoError(t, err)

	updated, err := merger.PatchSection(ctx, models.SectionHero, json.RawMessage(`{"title":{"en":"X"}}`))
	require.NoError(t, err)

	hero := updated.Hero.Data()
	assert.Equal(t, "X", hero.Title.En)
	assert.Equal(t, before.Hero.Data().Title.Uz, hero.Title.Uz)
	assert.Equal(t, before.Hero.Data().Title.Ru, hero.Title.Ru)
	assert.Equal(t, before.Hero.Data().Subtitle, hero.Subtitle)

	stored, err := merger.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "X", stored.Hero.Data().Title.En)
}

func TestSettingsMerger_PatchTheme(t *testing.T) {
	db := testdb.New(t)
	merger := NewSettingsMerger(db)
	ctx := context.Background()

	updated, err := merger.PatchSection(ctx, models.SectionTheme, json.RawMessage(`{"primaryColor":"#000000"}`))
	require.NoError(t, err)

	theme := updated.Theme.Data()
	assert.Equal(t, "#000000", theme.PrimaryColor)
	assert.Equal(t, "#06b6d4", theme.AccentColor)
	assert.Equal(t, models.ThemeModeDark, theme.DefaultMode)
}

func TestSettingsMerger_PatchReplacesArrays(t *testing.T) {
	db := testdb.New(t)
	merger := NewSettingsMerger(db)
	ctx := context.Background()

	_, err := merger.PatchSection(ctx, models.SectionHero, json.RawMessage(`{"typingTexts":{"en":["a","b","c"]}}`))
	require.NoError(t, err)
	updated, err := merger.PatchSection(ctx, models.SectionHero, json.RawMessage(`{"typingTexts":{"en":["z"]}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"z"}, updated.Hero.Data().TypingTexts.En)
}

func TestSettingsMerger_UnknownSectionLeavesDocument(t *testing.T) {
	db := testdb.New(t)
	merger := NewSettingsMerger(db)
	ctx := context.Background()

	_, err := merger.GetOrCreate(ctx)
	require.NoError(t, err)
	before, err := merger.GetOrCreate(ctx)
	require.NoError(t, err)

	_, err = merger.PatchSection(ctx, "unknownSection", json.RawMessage(`{"a":1}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	after, err := merger.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Hero.Data(), after.Hero.Data())
	assert.Equal(t, before.UpdatedAt.UnixNano(), after.UpdatedAt.UnixNano())
}

func TestSettingsMerger_InvalidValueLeavesDocument(t *testing.T) {
	db := testdb.New(t)
	merger := NewSettingsMerger(db)
	ctx := context.Background()

	_, err := merger.PatchSection(ctx, models.SectionTheme, json.RawMessage(`{"defaultMode":"sepia"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValidation)

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "theme.defaultMode", apiErr.Fields[0].Field)

	_, err = merger.PatchSection(ctx, models.SectionHero, json.RawMessage(`{"title":{"en":5}}`))
	assert.ErrorIs(t, err, errs.ErrValidation)

	stored, err := merger.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeModeDark, stored.Theme.Data().DefaultMode)
	assert.Equal(t, "Hi, I'm", stored.Hero.Data().Name.En)
}

func TestSettingsMerger_ReplaceAllIsShallow(t *testing.T) {
	db := testdb.New(t)
	merger := NewSettingsMerger(db)
	ctx := context.Background()

	values := map[string]json.RawMessage{
		"siteName":   json.RawMessage(`"My Site"`),
		"footer":     json.RawMessage(`{"text":{"en":"bye"}}`),
		"notAColumn": json.RawMessage(`true`),
	}
	created, err := merger.ReplaceAll(ctx, values)
	require.NoError(t, err)
	assert.Equal(t, "My Site", created.SiteName)
	assert.Equal(t, "bye", created.Footer.Data().Text.En)
	assert.Empty(t, created.Footer.Data().Text.Uz)
	assert.Equal(t, "About Me", created.About.Data().Title.En)

	again, err := merger.ReplaceAll(ctx, map[string]json.RawMessage{"resumeUrl": json.RawMessage(`"https://cv.example.com"`)})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "My Site", again.SiteName)
	assert.Equal(t, "https://cv.example.com", again.ResumeURL)
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"a": map[string]any{"x": 1.0, "y": 2.0},
		"b": []any{1.0, 2.0},
		"c": "keep",
	}
	src := map[string]any{
		"a": map[string]any{"y": 3.0},
		"b": []any{9.0},
		"d": map[string]any{"new": true},
	}

	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"x": 1.0, "y": 3.0},
		"b": []any{9.0},
		"c": "keep",
		"d": map[string]any{"new": true},
	}, got)
	assert.Equal(t, 2.0, dst["a"].(map[string]any)["y"], "inputs are not modified")
}
