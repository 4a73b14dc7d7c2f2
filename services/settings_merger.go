package services

import (
	"context"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// SettingsMerger owns the settings singleton. Writes are read-modify-write on the whole
// document, so two concurrent patches of different sections may lose one of them.
type SettingsMerger struct {
	settings *database.SettingsRepo
}

func NewSettingsMerger(db database.Database) *SettingsMerger {
	return &SettingsMerger{settings: db.SettingsRepo()}
}

// GetOrCreate returns the stored settings, creating them from defaults on first use.
func (m *SettingsMerger) GetOrCreate(ctx context.Context) (*models.Settings, error) {
	settings, err := m.settings.Find(ctx)
	if err == nil {
		return settings, nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}

	settings = models.DefaultSettings()
	if err := m.settings.Add(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ReplaceAll overwrites each top-level key present in values. Nested values are not merged.
// Unknown keys are ignored.
func (m *SettingsMerger) ReplaceAll(ctx context.Context, values map[string]json.RawMessage) (*models.Settings, error) {
	existing, err := m.settings.Find(ctx)
	isNew := false
	switch {
	case errs.IsNotFound(err):
		existing, isNew = models.DefaultSettings(), true
	case err != nil:
		return nil, err
	}

	updated := *existing
	for key, raw := range values {
		switch key {
		case "siteName":
			if err := json.Unmarshal(raw, &updated.SiteName); err != nil {
				return nil, errs.FromDecode(key, err)
			}
		case "resumeUrl":
			if err := json.Unmarshal(raw, &updated.ResumeURL); err != nil {
				return nil, errs.FromDecode(key, err)
			}
		default:
			if !models.IsSettingsSection(key) {
				continue
			}
			if err := updated.SetSection(key, raw); err != nil {
				return nil, errs.FromDecode(key, err)
			}
		}
	}

	if err := validateSections(&updated); err != nil {
		return nil, err
	}

	if isNew {
		err = m.settings.Add(ctx, &updated)
	} else {
		err = m.settings.Save(ctx, &updated)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// PatchSection deep merges partial into the named section and stores the result.
// Nested objects are merged key by key; arrays and scalars replace what was there.
func (m *SettingsMerger) PatchSection(ctx context.Context, section string, partial json.RawMessage) (*models.Settings, error) {
	if !models.IsSettingsSection(section) {
		return nil, errs.NewInvalidArgumentError("Invalid section")
	}

	var patch map[string]any
	if err := json.Unmarshal(partial, &patch); err != nil {
		return nil, errs.NewValidationError(map[string]string{section: "must be an object"})
	}

	settings, err := m.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	current, err := sectionAsMap(settings, section)
	if err != nil {
		return nil, errs.NewInternalError(err.Error())
	}

	merged, err := json.Marshal(DeepMerge(current, patch))
	if err != nil {
		return nil, errs.NewInternalError(err.Error())
	}

	updated := *settings
	if err := updated.SetSection(section, merged); err != nil {
		return nil, errs.FromDecode(section, err)
	}
	if err := validateSection(&updated, section); err != nil {
		return nil, err
	}

	if err := m.settings.Save(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeepMerge returns dst with src applied. Where both sides hold an object the merge recurses;
// anything else in src, arrays included, replaces the value in dst. Neither input is modified.
func DeepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, incoming := range src {
		existingMap, existingIsMap := out[k].(map[string]any)
		incomingMap, incomingIsMap := incoming.(map[string]any)
		if existingIsMap && incomingIsMap {
			out[k] = DeepMerge(existingMap, incomingMap)
			continue
		}
		out[k] = incoming
	}
	return out
}

func sectionAsMap(settings *models.Settings, section string) (map[string]any, error) {
	value, err := settings.Section(section)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding section %s: %w", section, err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding section %s: %w", section, err)
	}
	return out, nil
}

func validateSection(settings *models.Settings, section string) error {
	value, err := settings.Section(section)
	if err != nil {
		return errs.NewInvalidArgumentError("Invalid section")
	}
	return errs.FromValidation(section, validation.Validate(value))
}

func validateSections(settings *models.Settings) error {
	for _, section := range models.SettingsSections {
		if err := validateSection(settings, section); err != nil {
			return err
		}
	}
	return nil
}
